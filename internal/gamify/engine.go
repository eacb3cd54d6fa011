package gamify

import (
	"errors"
	"math"
	"time"
)

// Store 是引擎对持久化协作者的唯一依赖。
// 引擎自身不持有任何进程级单例状态，持久化句柄由调用方显式注入。
type Store interface {
	// LoadUser 读取用户当前状态；用户不存在时返回ErrUserNotFound。
	LoadUser(userID string) (UserState, error)

	// SaveDonation 原子地写入更新后的用户状态、追加一条不可变的捐赠流水，
	// 并记录本次新解锁的成就。expectedVersion与存储中的版本不一致时
	// 返回ErrVersionConflict，且不做任何修改。
	SaveDonation(user UserState, expectedVersion uint64, record DonationRecord, unlocks []string) error
}

// maxConflictRetries 是版本冲突的最大自动重试次数。
// 冲突是良性竞态，重读重算即可；其它错误一律终止本次调用。
const maxConflictRetries = 3

// Engine 是积分/等级/连击/成就的统一计算引擎。
// 所有捐赠处理都必须经过它，以保证乘数链的应用顺序处处一致。
type Engine struct {
	store   Store
	rules   Rules
	catalog []Achievement
}

// NewEngine 创建一个引擎实例。
func NewEngine(store Store, rules Rules, catalog []Achievement) *Engine {
	return &Engine{store: store, rules: rules, catalog: catalog}
}

// Rules 返回引擎当前使用的规则。
func (e *Engine) Rules() Rules {
	return e.rules
}

// Catalog 返回引擎当前使用的成就目录。
func (e *Engine) Catalog() []Achievement {
	return e.catalog
}

// ProcessDonation 处理一笔捐赠：读取用户状态，计算积分、等级、连击与成就，
// 并把结果原子地写回持久层。时间由调用方显式注入，引擎不读系统时钟。
//
// 积分链的固定顺序：基础分 → 类型乘数 → 等级乘数（按捐赠前的等级）→
// 连击乘数，全程保持浮点，最后一次性向下取整。成就奖励在积分链之后
// 单独累加，不参与乘数。
func (e *Engine) ProcessDonation(userID string, amount float64, donationType DonationType, timestamp time.Time, storageID string) (*DonationResult, error) {
	// 入参校验：拒绝时不提交任何状态
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	typeMultiplier, err := e.rules.TypeMultiplier(donationType)
	if err != nil {
		return nil, err
	}

	// 冲突重试环：每次都重新读取用户状态并完整重算
	for attempt := 0; ; attempt++ {
		result, err := e.processOnce(userID, amount, donationType, typeMultiplier, timestamp, storageID)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= maxConflictRetries {
			return nil, err
		}
	}
}

// processOnce 执行一次完整的读取-计算-写回。
func (e *Engine) processOnce(userID string, amount float64, donationType DonationType, typeMultiplier float64, timestamp time.Time, storageID string) (*DonationResult, error) {
	user, err := e.store.LoadUser(userID)
	if err != nil {
		return nil, err
	}
	expectedVersion := user.Version

	// 1. 等级乘数使用捐赠前的等级：本笔触发的升级不回溯加成本笔积分
	previousTier := e.rules.ClassifyTier(user.LifetimeDonated)

	// 2. 推进连击
	newStreak, newDate, _ := AdvanceStreakFrom(user.Streak, user.LastDonationDate, timestamp)
	streakMultiplier := e.rules.StreakMultiplier(newStreak)

	// 3. 积分链：全程浮点，最后统一向下取整
	base := amount * e.rules.BaseRate
	tierMultiplier := e.rules.TierMultiplier(previousTier)
	running := base * typeMultiplier * tierMultiplier * streakMultiplier
	pointsAwarded := int64(math.Floor(running))

	breakdown := BonusBreakdown{
		BasePoints:       base,
		TypeMultiplier:   typeMultiplier,
		TierMultiplier:   tierMultiplier,
		StreakMultiplier: streakMultiplier,
	}

	// 4. 更新用户快照
	if user.TypeCounts == nil {
		user.TypeCounts = make(map[DonationType]int64)
	}
	if user.VisitedStorages == nil {
		user.VisitedStorages = make(map[string]bool)
	}
	if user.Unlocked == nil {
		user.Unlocked = make(map[string]bool)
	}

	user.LifetimeDonated += amount
	user.TotalPoints += pointsAwarded
	user.TotalDonations++
	user.Streak = newStreak
	user.LastDonationDate = newDate
	user.TypeCounts[donationType]++
	if storageID != "" {
		user.VisitedStorages[storageID] = true
	}

	newTier := e.rules.ClassifyTier(user.LifetimeDonated)

	// 5. 成就判定：谓词作用于捐赠后的统计，幂等性由已解锁集合保证
	snapshot := Snapshot{
		LifetimeDonated:  user.LifetimeDonated,
		TotalPoints:      user.TotalPoints,
		TotalDonations:   user.TotalDonations,
		Streak:           user.Streak,
		DistinctStorages: len(user.VisitedStorages),
		TypeCounts:       user.TypeCounts,
		DonationAmount:   amount,
		DonationType:     donationType,
	}
	newlyUnlocked := EvaluateAchievements(e.catalog, user.Unlocked, snapshot)

	// 6. 成就奖励在积分链之后单独累加
	var achievementPoints int64
	unlockIDs := make([]string, 0, len(newlyUnlocked))
	resultUnlocks := make([]UnlockedAchievement, 0, len(newlyUnlocked))
	for _, a := range newlyUnlocked {
		achievementPoints += a.Reward
		user.Unlocked[a.ID] = true
		unlockIDs = append(unlockIDs, a.ID)
		resultUnlocks = append(resultUnlocks, UnlockedAchievement{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Emoji:       a.Emoji,
			Reward:      a.Reward,
		})
	}
	user.TotalPoints += achievementPoints

	// 7. 原子写回：用户状态 + 不可变流水 + 解锁记录
	record := DonationRecord{
		UserID:        userID,
		Amount:        amount,
		Type:          donationType,
		Timestamp:     timestamp,
		StorageID:     storageID,
		PointsAwarded: pointsAwarded,
		Breakdown:     breakdown,
	}
	user.Version = expectedVersion + 1
	if err := e.store.SaveDonation(user, expectedVersion, record, unlockIDs); err != nil {
		return nil, err
	}

	return &DonationResult{
		UserID:            userID,
		DisplayName:       user.DisplayName,
		Amount:            amount,
		Type:              donationType,
		PointsAwarded:     pointsAwarded,
		Breakdown:         breakdown,
		PreviousTier:      previousTier,
		NewTier:           newTier,
		TierUpgraded:      newTier != previousTier,
		Streak:            user.Streak,
		NewlyUnlocked:     resultUnlocks,
		AchievementPoints: achievementPoints,
		TotalPoints:       user.TotalPoints,
		LifetimeDonated:   user.LifetimeDonated,
		TotalDonations:    user.TotalDonations,
	}, nil
}
