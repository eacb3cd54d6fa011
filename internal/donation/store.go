package donation

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// gormStore 把积分引擎的持久化协作者接到GORM上。
// 每次请求构造一个实例，携带该请求的坐标，写入流水时一并落库。
type gormStore struct {
	db        *gorm.DB
	rewards   map[string]int64
	latitude  float64
	longitude float64

	// createdDonationID 在SaveDonation成功后记录新流水的主键，用于签发回执
	createdDonationID uint
}

// newGormStore 创建一个绑定当前请求坐标的存储实例。
func newGormStore(db *gorm.DB, catalog []gamify.Achievement, latitude, longitude float64) *gormStore {
	rewards := make(map[string]int64, len(catalog))
	for _, a := range catalog {
		rewards[a.ID] = a.Reward
	}
	return &gormStore{db: db, rewards: rewards, latitude: latitude, longitude: longitude}
}

// LoadUser 读取用户的权威状态，包括成就解锁集合。
func (s *gormStore) LoadUser(userID string) (gamify.UserState, error) {
	var u user.User
	if err := s.db.First(&u, "uuid = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gamify.UserState{}, gamify.ErrUserNotFound
		}
		return gamify.UserState{}, fmt.Errorf("%w: 读取用户失败: %v", gamify.ErrPersistenceUnavailable, err)
	}

	var unlockRows []AchievementUnlock
	if err := s.db.Where("user_uuid = ?", userID).Find(&unlockRows).Error; err != nil {
		return gamify.UserState{}, fmt.Errorf("%w: 读取成就解锁记录失败: %v", gamify.ErrPersistenceUnavailable, err)
	}
	unlocked := make(map[string]bool, len(unlockRows))
	for _, row := range unlockRows {
		unlocked[row.AchievementID] = true
	}

	return u.ToState(unlocked)
}

// SaveDonation 在单个数据库事务中完成三件事：
// 按版本号条件更新用户行、追加一条捐赠流水、写入新解锁的成就。
// 版本号不匹配时整个事务不产生任何修改。
func (s *gormStore) SaveDonation(state gamify.UserState, expectedVersion uint64, record gamify.DonationRecord, unlocks []string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var snapshot user.User
		if err := tx.Select("uuid").First(&snapshot, "uuid = ?", state.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gamify.ErrUserNotFound
			}
			return err
		}

		snapshot.UUID = state.ID
		if err := snapshot.ApplyState(state); err != nil {
			return err
		}

		// 乐观锁：版本号做更新条件，落空即说明有并发写入
		result := tx.Model(&user.User{}).
			Where("uuid = ? AND version = ?", state.ID, expectedVersion).
			Updates(map[string]interface{}{
				"lifetime_donated":   snapshot.LifetimeDonated,
				"total_points":       snapshot.TotalPoints,
				"total_donations":    snapshot.TotalDonations,
				"streak":             snapshot.Streak,
				"last_donation_date": snapshot.LastDonationDate,
				"type_counts":        snapshot.TypeCountsJSON,
				"visited_storages":   snapshot.VisitedStoragesJSON,
				"version":            snapshot.Version,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gamify.ErrVersionConflict
		}

		row := Donation{
			UserUUID:         record.UserID,
			Amount:           record.Amount,
			Type:             record.Type,
			Timestamp:        record.Timestamp,
			StorageID:        record.StorageID,
			Latitude:         s.latitude,
			Longitude:        s.longitude,
			PointsAwarded:    record.PointsAwarded,
			BasePoints:       record.Breakdown.BasePoints,
			TypeMultiplier:   record.Breakdown.TypeMultiplier,
			TierMultiplier:   record.Breakdown.TierMultiplier,
			StreakMultiplier: record.Breakdown.StreakMultiplier,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		s.createdDonationID = row.ID

		for _, achievementID := range unlocks {
			unlock := AchievementUnlock{
				UserUUID:      record.UserID,
				AchievementID: achievementID,
				UnlockedAt:    record.Timestamp,
				RewardPoints:  s.rewards[achievementID],
			}
			if err := tx.Create(&unlock).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gamify.ErrUserNotFound) || errors.Is(err, gamify.ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("%w: 捐赠事务提交失败: %v", gamify.ErrPersistenceUnavailable, err)
}

// LoadUserState 是给其它模块使用的只读入口，
// 返回引擎视角的用户状态而不暴露存储细节。
func LoadUserState(userID string) (gamify.UserState, error) {
	store := newGormStore(database.DB, gamify.DefaultCatalog(), 0, 0)
	return store.LoadUser(userID)
}
