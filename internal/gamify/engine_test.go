package gamify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(store Store) *Engine {
	return NewEngine(store, DefaultRules(), DefaultCatalog())
}

func newUser(id string) UserState {
	return UserState{ID: id, DisplayName: "测试用户"}
}

// 规格场景：新用户第一笔现金捐赠50 → 500×1.0×1.0×1.0 = 500分
func TestFirstMonetaryDonation(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(store)

	result, err := engine.ProcessDonation("u1", 50, TypeMonetary, testDay, "s1")
	require.NoError(t, err)

	assert.Equal(t, int64(500), result.PointsAwarded)
	assert.Equal(t, 500.0, result.Breakdown.BasePoints)
	assert.Equal(t, 1.0, result.Breakdown.TypeMultiplier)
	assert.Equal(t, 1.0, result.Breakdown.TierMultiplier)
	assert.Equal(t, 1.0, result.Breakdown.StreakMultiplier)
	assert.Equal(t, TierBronze, result.PreviousTier)
	assert.Equal(t, TierBronze, result.NewTier)
	assert.False(t, result.TierUpgraded)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 50.0, result.LifetimeDonated)
}

// 非法输入必须被拒绝，且不提交任何状态
func TestRejectedDonationsLeaveNoTrace(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(store)

	_, err := engine.ProcessDonation("u1", 0, TypeMonetary, testDay, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.ProcessDonation("u1", -5, TypeMonetary, testDay, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.ProcessDonation("u1", 10, DonationType("magic"), testDay, "")
	assert.ErrorIs(t, err, ErrUnknownDonationType)

	_, err = engine.ProcessDonation("missing", 10, TypeMonetary, testDay, "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// 存储中不应出现任何流水
	assert.Empty(t, store.donations)
	u, _ := store.LoadUser("u1")
	assert.Equal(t, int64(0), u.TotalPoints)
	assert.Equal(t, uint64(0), u.Version)
}

// 金额固定其它条件不变时，积分对金额单调不减
func TestPointsMonotonicInAmount(t *testing.T) {
	var prev int64 = -1
	for _, amount := range []float64{0.01, 0.5, 1, 3.7, 10, 49.99, 50, 100, 1000} {
		store := newMemStore()
		store.put(newUser("u1"))
		engine := newTestEngine(store)

		result, err := engine.ProcessDonation("u1", amount, TypeGoods, testDay, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.PointsAwarded, prev, "金额 %v", amount)
		assert.GreaterOrEqual(t, result.PointsAwarded, int64(0))
		prev = result.PointsAwarded
	}
}

// 乘数链在最后才向下取整，而不是逐级取整
func TestRoundingOnlyAtTheEnd(t *testing.T) {
	store := newMemStore()
	user := newUser("u1")
	// Silver等级（乘数1.1），连击2（乘数1.1）
	user.LifetimeDonated = 150
	user.Streak = 1
	user.LastDonationDate = testDay.AddDate(0, 0, -1)
	user.Version = 3
	store.put(user)
	engine := newTestEngine(store)

	// 基础 7×10=70, ×1.2(goods)=84, ×1.1(Silver)=92.4, ×1.1(连击2)=101.64 → 101
	result, err := engine.ProcessDonation("u1", 7, TypeGoods, testDay, "")
	require.NoError(t, err)
	assert.Equal(t, int64(101), result.PointsAwarded)
}

// 规格场景：连击6、昨天捐过，今天再捐 → 连击7，踏入最高连击档
func TestStreakCrossesTopStep(t *testing.T) {
	store := newMemStore()
	user := newUser("u1")
	user.Streak = 6
	user.LastDonationDate = testDay.AddDate(0, 0, -1)
	user.LifetimeDonated = 60
	store.put(user)
	engine := newTestEngine(store)

	result, err := engine.ProcessDonation("u1", 10, TypeMonetary, testDay, "")
	require.NoError(t, err)
	assert.Equal(t, 7, result.Streak)
	assert.Equal(t, 1.5, result.Breakdown.StreakMultiplier)
}

// 同日第二笔捐赠不改变连击
func TestSameDaySecondDonationKeepsStreak(t *testing.T) {
	store := newMemStore()
	user := newUser("u1")
	user.Streak = 3
	user.LastDonationDate = DateOf(testDay)
	store.put(user)
	engine := newTestEngine(store)

	result, err := engine.ProcessDonation("u1", 10, TypeMonetary, testDay.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)
}

// 规格场景：本笔捐赠恰好跨过Gold门槛 → 报告Silver→Gold，
// 但本笔使用的等级乘数是升级前的Silver
func TestTierUpgradeUsesPreUpgradeMultiplier(t *testing.T) {
	store := newMemStore()
	user := newUser("u1")
	user.LifetimeDonated = 450 // Silver（门槛100），距Gold（500）还差50
	store.put(user)
	engine := newTestEngine(store)

	result, err := engine.ProcessDonation("u1", 50, TypeMonetary, testDay, "")
	require.NoError(t, err)

	assert.Equal(t, TierSilver, result.PreviousTier)
	assert.Equal(t, TierGold, result.NewTier)
	assert.True(t, result.TierUpgraded)
	// 乘数必须是Silver的1.1，而不是Gold的1.2
	assert.Equal(t, 1.1, result.Breakdown.TierMultiplier)
	assert.Equal(t, int64(550), result.PointsAwarded) // 500×1.1
}

// 规格场景：大额首捐同时满足两个成就 → 按目录顺序返回，奖励各计一次
func TestSimultaneousAchievementsInCatalogOrder(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(store)

	result, err := engine.ProcessDonation("u1", 150, TypeMonetary, testDay, "")
	require.NoError(t, err)

	require.Len(t, result.NewlyUnlocked, 2)
	assert.Equal(t, "first_donation", result.NewlyUnlocked[0].ID)
	assert.Equal(t, "generous_giver", result.NewlyUnlocked[1].ID)
	assert.Equal(t, int64(1500), result.AchievementPoints)
	// 总分 = 本笔积分 + 两个成就奖励
	assert.Equal(t, result.PointsAwarded+1500, result.TotalPoints)
}

// 成就解锁后永远不会再次作为"新解锁"返回
func TestAchievementNeverUnlocksTwice(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(store)

	first, err := engine.ProcessDonation("u1", 150, TypeMonetary, testDay, "")
	require.NoError(t, err)
	require.NotEmpty(t, first.NewlyUnlocked)

	// 再次大额捐赠：generous_giver的谓词仍然满足，但不能重复解锁
	second, err := engine.ProcessDonation("u1", 200, TypeMonetary, testDay.AddDate(0, 0, 1), "")
	require.NoError(t, err)
	for _, a := range second.NewlyUnlocked {
		assert.NotEqual(t, "first_donation", a.ID)
		assert.NotEqual(t, "generous_giver", a.ID)
	}
}

// 版本冲突会被自动重试；超过上限则报告冲突错误
func TestVersionConflictRetry(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(&conflictingStore{memStore: store, conflicts: 2})

	result, err := engine.ProcessDonation("u1", 10, TypeMonetary, testDay, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.PointsAwarded)

	store2 := newMemStore()
	store2.put(newUser("u2"))
	engine2 := newTestEngine(&conflictingStore{memStore: store2, conflicts: 10})
	_, err = engine2.ProcessDonation("u2", 10, TypeMonetary, testDay, "")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

// 同一用户的并发捐赠在正确串行化下满足累加的交换律：
// 并发处理后的累计值与任意顺序串行处理一致
func TestConcurrentDonationsAccumulate(t *testing.T) {
	store := newMemStore()
	store.put(newUser("u1"))
	engine := newTestEngine(store)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				// CAS失败时引擎内部有限重试，外层再兜底重试直到成功
				for {
					_, err := engine.ProcessDonation("u1", 10, TypeMonetary, testDay, "")
					if err == nil {
						break
					}
					require.ErrorIs(t, err, ErrVersionConflict)
				}
			}
		}()
	}
	wg.Wait()

	u, err := store.LoadUser("u1")
	require.NoError(t, err)
	assert.Equal(t, float64(workers*perWorker*10), u.LifetimeDonated)
	assert.Equal(t, int64(workers*perWorker), u.TotalDonations)
	assert.Equal(t, uint64(workers*perWorker), u.Version)
	assert.Len(t, store.donations, workers*perWorker)
}
