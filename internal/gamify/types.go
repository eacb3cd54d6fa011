package gamify

import "time"

// DonationType 定义了捐赠类型的枚举
type DonationType string

const (
	// TypeMonetary 表示现金捐赠
	TypeMonetary DonationType = "monetary"
	// TypeGoods 表示实物捐赠（金额为估值）
	TypeGoods DonationType = "goods"
	// TypeCrypto 表示加密货币捐赠
	TypeCrypto DonationType = "crypto"
	// TypeTime 表示志愿服务时间捐赠（金额为等价换算值）
	TypeTime DonationType = "time"
)

// Tier 定义了用户等级的有序枚举
type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
)

// tierNames 按枚举顺序排列，用于序列化
var tierNames = [...]string{"Bronze", "Silver", "Gold", "Platinum"}

// String 返回等级的展示名称
func (t Tier) String() string {
	if t < TierBronze || t > TierPlatinum {
		return "Unknown"
	}
	return tierNames[t]
}

// MarshalJSON 让等级在API响应中以名称而非数字出现
func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UserState 是引擎读写的用户快照。
// 它只由引擎在处理捐赠的副作用中被修改。
type UserState struct {
	ID          string
	DisplayName string

	// LifetimeDonated 是累计捐赠金额（等级门槛的依据）
	LifetimeDonated float64
	// TotalPoints 是累计积分
	TotalPoints int64
	// TotalDonations 是累计捐赠笔数
	TotalDonations int64

	// Streak 是当前连续捐赠天数
	Streak int
	// LastDonationDate 是最近一次有效捐赠的日期（零值表示从未捐赠）
	LastDonationDate time.Time

	// TypeCounts 按捐赠类型记录的笔数
	TypeCounts map[DonationType]int64
	// VisitedStorages 是用户捐赠过的捐赠点ID集合
	VisitedStorages map[string]bool
	// Unlocked 是已解锁的成就ID集合
	Unlocked map[string]bool

	// Version 是乐观并发控制的版本号，每次成功保存时加一
	Version uint64
}

// DonationRecord 是一笔不可变的捐赠流水。
// 一旦写入持久层就只追加、不修改。
type DonationRecord struct {
	UserID    string
	Amount    float64
	Type      DonationType
	Timestamp time.Time
	StorageID string
	Latitude  float64
	Longitude float64

	// PointsAwarded 是本笔捐赠的积分（不含成就奖励）
	PointsAwarded int64
	Breakdown     BonusBreakdown
}

// BonusBreakdown 记录了积分计算链中每一环的取值。
// 计算顺序固定为：基础分 → 类型乘数 → 等级乘数 → 连击乘数，最后一次性向下取整。
type BonusBreakdown struct {
	BasePoints       float64 `json:"basePoints"`
	TypeMultiplier   float64 `json:"typeMultiplier"`
	TierMultiplier   float64 `json:"tierMultiplier"`
	StreakMultiplier float64 `json:"streakMultiplier"`
}

// UnlockedAchievement 是一次成就解锁的结果条目
type UnlockedAchievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Reward      int64  `json:"reward"`
}

// DonationResult 是引擎对一次捐赠处理的完整输出，
// 同时供通知协作者和展示层消费。
type DonationResult struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`

	Amount float64      `json:"amount"`
	Type   DonationType `json:"type"`

	PointsAwarded int64          `json:"pointsAwarded"`
	Breakdown     BonusBreakdown `json:"breakdown"`

	PreviousTier Tier `json:"previousTier"`
	NewTier      Tier `json:"newTier"`
	TierUpgraded bool `json:"tierUpgraded"`

	Streak int `json:"streak"`

	NewlyUnlocked     []UnlockedAchievement `json:"newlyUnlocked"`
	AchievementPoints int64                 `json:"achievementPoints"`

	TotalPoints     int64   `json:"totalPoints"`
	LifetimeDonated float64 `json:"lifetimeDonated"`
	TotalDonations  int64   `json:"totalDonations"`
}
