package donation

import (
	"time"

	"gorm.io/gorm"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
)

// Donation 定义了单笔捐赠流水的数据结构。
// 记录一旦写入就只追加、不修改，所有聚合数字都可以由它重建。
type Donation struct {
	gorm.Model

	// UserUUID 是捐赠者的用户ID
	UserUUID string `gorm:"index" json:"user_uuid"`

	// Amount 是捐赠金额（实物与时间类捐赠为估值）
	Amount float64 `json:"amount"`

	// Type 记录捐赠类型
	Type gamify.DonationType `json:"type"`

	// Timestamp 是业务时间戳，由处理时注入，区别于CreatedAt
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	// StorageID 是捐赠发生的站点，可为空
	StorageID string `gorm:"index" json:"storage_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// PointsAwarded 是本笔捐赠的积分（不含成就奖励），
	// 其余四列固化了积分链每一环的取值，保证流水可审计。
	PointsAwarded    int64   `json:"points_awarded"`
	BasePoints       float64 `json:"base_points"`
	TypeMultiplier   float64 `json:"type_multiplier"`
	TierMultiplier   float64 `json:"tier_multiplier"`
	StreakMultiplier float64 `json:"streak_multiplier"`
}

// AchievementUnlock 定义了成就解锁的持久化记录。
// (UserUUID, AchievementID) 上的唯一索引保证同一成就不会被解锁两次。
type AchievementUnlock struct {
	gorm.Model

	UserUUID      string `gorm:"uniqueIndex:idx_user_achievement" json:"user_uuid"`
	AchievementID string `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`

	// UnlockedAt 是解锁对应捐赠的业务时间戳
	UnlockedAt   time.Time `json:"unlocked_at"`
	RewardPoints int64     `json:"reward_points"`
}
