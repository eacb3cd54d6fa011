package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
)

func TestEncodeDecodeCounters(t *testing.T) {
	u := &User{}

	// 空列解码为空表而不是错误
	counts, err := u.DecodeTypeCounts()
	require.NoError(t, err)
	assert.Empty(t, counts)
	visited, err := u.DecodeVisitedStorages()
	require.NoError(t, err)
	assert.Empty(t, visited)

	require.NoError(t, u.EncodeCounters(
		map[string]int64{"monetary": 3, "goods": 1},
		map[string]bool{"sydney-cbd": true},
	))

	counts, err = u.DecodeTypeCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["monetary"])
	assert.Equal(t, int64(1), counts["goods"])

	visited, err = u.DecodeVisitedStorages()
	require.NoError(t, err)
	assert.True(t, visited["sydney-cbd"])

	// 损坏的JSON列报错而不是静默清零
	u.TypeCountsJSON = "{broken"
	_, err = u.DecodeTypeCounts()
	assert.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	lastDay := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	u := &User{
		UUID:             "018f4e2a-0000-7000-8000-000000000001",
		DisplayName:      "Amy",
		LifetimeDonated:  350,
		TotalPoints:      4200,
		TotalDonations:   12,
		Streak:           4,
		LastDonationDate: lastDay,
		Version:          12,
	}
	require.NoError(t, u.EncodeCounters(
		map[string]int64{"monetary": 10, "time": 2},
		map[string]bool{"newtown": true, "parramatta": true},
	))

	state, err := u.ToState(map[string]bool{"first_donation": true})
	require.NoError(t, err)
	assert.Equal(t, u.UUID, state.ID)
	assert.Equal(t, int64(12), state.TotalDonations)
	assert.Equal(t, int64(10), state.TypeCounts[gamify.TypeMonetary])
	assert.Equal(t, int64(2), state.TypeCounts[gamify.TypeTime])
	assert.True(t, state.VisitedStorages["newtown"])
	assert.True(t, state.Unlocked["first_donation"])
	assert.Equal(t, uint64(12), state.Version)

	// 引擎处理后的状态写回模型
	state.LifetimeDonated += 50
	state.TotalPoints += 500
	state.TotalDonations++
	state.Streak = 5
	state.TypeCounts[gamify.TypeGoods] = 1
	state.VisitedStorages["chatswood"] = true
	state.Version = 13

	require.NoError(t, u.ApplyState(state))
	assert.Equal(t, 400.0, u.LifetimeDonated)
	assert.Equal(t, int64(4700), u.TotalPoints)
	assert.Equal(t, 13, u.TotalDonations)
	assert.Equal(t, uint64(13), u.Version)

	counts, err := u.DecodeTypeCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["goods"])
	visited, err := u.DecodeVisitedStorages()
	require.NoError(t, err)
	assert.True(t, visited["chatswood"])
}
