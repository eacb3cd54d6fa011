package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestRulesValidation(t *testing.T) {
	r := DefaultRules()
	r.TierThresholds = [4]float64{0, 100, 100, 2000}
	assert.Error(t, r.Validate(), "门槛必须严格递增")

	r = DefaultRules()
	r.BaseRate = 0
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.StreakSteps = []StreakStep{{MinStreak: 1, Multiplier: 1.0}, {MinStreak: 3, Multiplier: 0.9}}
	assert.Error(t, r.Validate(), "连击乘数不能下降")
}

// 等级划分是纯函数：同一累计额永远得到同一等级，与历史无关
func TestClassifyTier(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		total float64
		want  Tier
	}{
		{0, TierBronze},
		{99.99, TierBronze},
		{100, TierSilver}, // 门槛是包含下界
		{499.99, TierSilver},
		{500, TierGold},
		{1999.99, TierGold},
		{2000, TierPlatinum},
		{1e9, TierPlatinum},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, r.ClassifyTier(c.total), "累计额 %v", c.total)
		// 幂等：重复分类结果不变
		assert.Equal(t, r.ClassifyTier(c.total), r.ClassifyTier(c.total))
	}
}

// 连击乘数是显式阶梯表：单调不减并在第7天封顶
func TestStreakMultiplierTable(t *testing.T) {
	r := DefaultRules()

	cases := map[int]float64{
		1:   1.0,
		2:   1.1,
		3:   1.2,
		4:   1.2,
		5:   1.3,
		6:   1.3,
		7:   1.5,
		30:  1.5,
		365: 1.5, // 封顶，不随连击无限增长
	}
	prev := 0.0
	for streak := 1; streak <= 400; streak++ {
		m := r.StreakMultiplier(streak)
		assert.GreaterOrEqual(t, m, prev, "连击 %d", streak)
		prev = m
	}
	for streak, want := range cases {
		assert.Equal(t, want, r.StreakMultiplier(streak), "连击 %d", streak)
	}
}

func TestTypeMultiplier(t *testing.T) {
	r := DefaultRules()

	for dtype, want := range map[DonationType]float64{
		TypeMonetary: 1.0,
		TypeGoods:    1.2,
		TypeCrypto:   1.5,
		TypeTime:     2.0,
	} {
		m, err := r.TypeMultiplier(dtype)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}

	_, err := r.TypeMultiplier(DonationType("furniture"))
	assert.ErrorIs(t, err, ErrUnknownDonationType)
}
