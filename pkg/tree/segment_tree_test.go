package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildAndQuery(t *testing.T) {
	st, err := NewSegmentTree(5)
	require.NoError(t, err)

	weights := []float64{1, 2, 3, 4, 5}
	require.NoError(t, st.Rebuild(weights))
	assert.InDelta(t, 15.0, st.TotalSum(), 1e-9)

	for i, w := range weights {
		got, err := st.Query(i)
		require.NoError(t, err)
		assert.InDelta(t, w, got, 1e-9)
	}

	// 大小不匹配的权重数组被拒绝
	assert.Error(t, st.Rebuild([]float64{1, 2}))
}

func TestUpdatePropagatesToTotal(t *testing.T) {
	st, err := NewSegmentTree(4)
	require.NoError(t, err)
	require.NoError(t, st.Rebuild([]float64{1, 1, 1, 1}))

	require.NoError(t, st.Update(2, 10))
	assert.InDelta(t, 13.0, st.TotalSum(), 1e-9)

	got, err := st.Query(2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)

	assert.Error(t, st.Update(4, 1))
	assert.Error(t, st.Update(-1, 1))
}

func TestFindSelectsByPrefixSum(t *testing.T) {
	st, err := NewSegmentTree(3)
	require.NoError(t, err)
	require.NoError(t, st.Rebuild([]float64{2, 0, 3}))

	cases := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{1.5, 0},
		{2.0, 0},
		{2.5, 2},
		{5.0, 2},
	}
	for _, c := range cases {
		got, err := st.Find(c.value)
		require.NoError(t, err)
		assert.Equalf(t, c.want, got, "Find(%f)", c.value)
	}

	_, err = st.Find(-0.1)
	assert.Error(t, err)
	_, err = st.Find(5.1)
	assert.Error(t, err)
}
