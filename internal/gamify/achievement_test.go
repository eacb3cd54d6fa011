package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIDsUnique(t *testing.T) {
	catalog := DefaultCatalog()
	seen := map[string]bool{}
	for _, a := range catalog {
		assert.Falsef(t, seen[a.ID], "成就ID重复: %s", a.ID)
		seen[a.ID] = true
		assert.NotEmpty(t, a.Name)
		assert.Positive(t, a.Reward)
		require.NotNil(t, a.Qualifies)
	}
}

func TestEvaluateAchievementsOrderAndFiltering(t *testing.T) {
	catalog := DefaultCatalog()

	// 首笔大额加密货币捐赠同时满足三个成就，返回顺序跟随目录顺序
	s := Snapshot{
		TotalDonations: 1,
		DonationAmount: 150,
		DonationType:   TypeCrypto,
		TypeCounts:     map[DonationType]int64{TypeCrypto: 1},
	}
	newly := EvaluateAchievements(catalog, map[string]bool{}, s)
	require.Len(t, newly, 3)
	assert.Equal(t, "first_donation", newly[0].ID)
	assert.Equal(t, "generous_giver", newly[1].ID)
	assert.Equal(t, "crypto_pioneer", newly[2].ID)

	// 已解锁的成就不会再出现
	unlocked := map[string]bool{"first_donation": true, "crypto_pioneer": true}
	newly = EvaluateAchievements(catalog, unlocked, s)
	require.Len(t, newly, 1)
	assert.Equal(t, "generous_giver", newly[0].ID)
}

func TestStreakAchievements(t *testing.T) {
	catalog := DefaultCatalog()

	s := Snapshot{TotalDonations: 10, Streak: 7}
	newly := EvaluateAchievements(catalog, map[string]bool{"first_donation": true}, s)
	require.Len(t, newly, 1)
	assert.Equal(t, "week_warrior", newly[0].ID)

	s.Streak = 30
	newly = EvaluateAchievements(catalog, map[string]bool{"first_donation": true, "week_warrior": true}, s)
	require.Len(t, newly, 1)
	assert.Equal(t, "consistency_king", newly[0].ID)
}

func TestLocationExplorerNeedsFiveStorages(t *testing.T) {
	catalog := DefaultCatalog()
	unlocked := map[string]bool{"first_donation": true}

	s := Snapshot{TotalDonations: 4, DistinctStorages: 4}
	assert.Empty(t, EvaluateAchievements(catalog, unlocked, s))

	s.DistinctStorages = 5
	newly := EvaluateAchievements(catalog, unlocked, s)
	require.Len(t, newly, 1)
	assert.Equal(t, "location_explorer", newly[0].ID)
}
