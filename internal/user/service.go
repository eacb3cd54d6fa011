package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProvisionalUserID 生成一个临时的、尚未持久化的新用户UUID。
// 这个UUID将被设置到cookie中，但此时用户尚未注册。
func CreateProvisionalUserID() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsUserRegistered 检查一个给定的UUID是否已经注册。
// 它只查询Redis缓存，以获得最高性能。
func IsUserRegistered(uuidStr string) (bool, error) {
	if uuidStr == "" {
		return false, nil
	}
	exists, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, uuidStr).Result()
	if err != nil {
		return false, fmt.Errorf("检查Redis用户缓存时出错: %w", err)
	}
	return exists, nil
}

// RegisterUser 将一个临时的UUID正式持久化到数据库和缓存中。
// 这个操作是原子性的，如果缓存写入失败，数据库写入将被回滚。
func RegisterUser(uuidStr string, displayName string, email string) error {
	registered, err := IsUserRegistered(uuidStr)
	if err != nil {
		return err
	}
	if registered {
		return nil // 用户已存在，无需操作
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	newUser := User{
		UUID:        uuidStr,
		DisplayName: displayName,
		Email:       email,
	}
	if err := newUser.EncodeCounters(map[string]int64{}, map[string]bool{}); err != nil {
		tx.Rollback()
		return fmt.Errorf("无法初始化新用户的计数表: %w", err)
	}
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		// 如果是因为记录已存在而出错，这不是一个真正的错误
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("无法在数据库中创建新用户: %w", err)
	}

	if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("无法将新用户 %s 添加到Redis缓存: %w", uuidStr, err)
	}

	return tx.Commit().Error
}

// GetUserByID 从SQLite读取单个用户的权威记录。
func GetUserByID(uuidStr string) (*User, error) {
	var u User
	if err := database.DB.First(&u, "uuid = ?", uuidStr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gamify.ErrUserNotFound
		}
		return nil, fmt.Errorf("无法读取用户 %s: %w", uuidStr, err)
	}
	return &u, nil
}

// ToState 将持久化模型转换为积分引擎使用的用户状态。
// unlocked 来自成就解锁表，由调用方负责查询。
func (u *User) ToState(unlocked map[string]bool) (gamify.UserState, error) {
	typeCounts, err := u.DecodeTypeCounts()
	if err != nil {
		return gamify.UserState{}, fmt.Errorf("用户 %s 的type_counts列损坏: %w", u.UUID, err)
	}
	visited, err := u.DecodeVisitedStorages()
	if err != nil {
		return gamify.UserState{}, fmt.Errorf("用户 %s 的visited_storages列损坏: %w", u.UUID, err)
	}
	if unlocked == nil {
		unlocked = map[string]bool{}
	}
	counts := make(map[gamify.DonationType]int64, len(typeCounts))
	for k, v := range typeCounts {
		counts[gamify.DonationType(k)] = v
	}
	return gamify.UserState{
		ID:               u.UUID,
		DisplayName:      u.DisplayName,
		LifetimeDonated:  u.LifetimeDonated,
		TotalPoints:      u.TotalPoints,
		TotalDonations:   int64(u.TotalDonations),
		Streak:           u.Streak,
		LastDonationDate: u.LastDonationDate,
		TypeCounts:       counts,
		VisitedStorages:  visited,
		Unlocked:         unlocked,
		Version:          u.Version,
	}, nil
}

// ApplyState 将引擎计算后的用户状态写回持久化模型的对应列。
func (u *User) ApplyState(state gamify.UserState) error {
	u.LifetimeDonated = state.LifetimeDonated
	u.TotalPoints = state.TotalPoints
	u.TotalDonations = int(state.TotalDonations)
	u.Streak = state.Streak
	u.LastDonationDate = state.LastDonationDate
	u.Version = state.Version
	counts := make(map[string]int64, len(state.TypeCounts))
	for k, v := range state.TypeCounts {
		counts[string(k)] = v
	}
	return u.EncodeCounters(counts, state.VisitedStorages)
}

// buildProfile 生成写入概要缓存的数据结构。
func buildProfile(u *User, achievements int) Profile {
	tier := ActiveRules().ClassifyTier(u.LifetimeDonated)
	return Profile{
		DisplayName:     u.DisplayName,
		Tier:            tier.String(),
		LifetimeDonated: u.LifetimeDonated,
		TotalPoints:     u.TotalPoints,
		TotalDonations:  u.TotalDonations,
		Streak:          u.Streak,
		Achievements:    achievements,
	}
}

// RefreshProfileCache 用最新的用户记录更新Redis中的概要缓存，
// 并把该用户标记为脏，供后台聚合校验使用。
func RefreshProfileCache(u *User, achievements int) error {
	payload, err := json.Marshal(buildProfile(u, achievements))
	if err != nil {
		return fmt.Errorf("无法序列化用户概要: %w", err)
	}

	LockRepository()
	defer UnlockRepository()

	pipe := database.RDB.TxPipeline()
	pipe.HSet(database.Ctx, ProfileKey, u.UUID, payload)
	pipe.SAdd(database.Ctx, DirtySetKey, u.UUID)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("无法更新用户 %s 的概要缓存: %w", u.UUID, err)
	}
	return nil
}

// GetCachedProfile 从Redis读取用户概要，缓存未命中时回源SQLite并回填。
func GetCachedProfile(uuidStr string) (*Profile, error) {
	RLockRepository()
	payload, err := database.RDB.HGet(database.Ctx, ProfileKey, uuidStr).Result()
	RUnlockRepository()
	if err == nil {
		var profile Profile
		if jsonErr := json.Unmarshal([]byte(payload), &profile); jsonErr == nil {
			return &profile, nil
		}
		fmt.Printf("用户 %s 的概要缓存损坏，回源数据库重建。\n", uuidStr)
	}

	u, err := GetUserByID(uuidStr)
	if err != nil {
		return nil, err
	}
	achievements, err := countAchievements(uuidStr)
	if err != nil {
		return nil, err
	}
	if err := RefreshProfileCache(u, achievements); err != nil {
		fmt.Printf("回填用户概要缓存失败: %v\n", err)
	}
	profile := buildProfile(u, achievements)
	return &profile, nil
}

// ResyncDirtyProfiles 按SQLite重建所有脏用户的概要缓存。
// 先把脏集合轮换为处理中集合，避免与处理期间新产生的脏标记混在一起。
func ResyncDirtyProfiles() error {
	LockRepository()
	err := database.RDB.Rename(database.Ctx, DirtySetKey, ProcessingDirtySetKey).Err()
	UnlockRepository()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return nil // 没有脏用户
		}
		return fmt.Errorf("无法轮换脏用户集合: %w", err)
	}

	uuids, err := database.RDB.SMembers(database.Ctx, ProcessingDirtySetKey).Result()
	if err != nil {
		return fmt.Errorf("无法读取处理中的脏用户集合: %w", err)
	}
	for _, uuidStr := range uuids {
		u, err := GetUserByID(uuidStr)
		if err != nil {
			fmt.Printf("校验用户 %s 概要时读取数据库失败: %v\n", uuidStr, err)
			continue
		}
		achievements, err := countAchievements(uuidStr)
		if err != nil {
			fmt.Printf("校验用户 %s 概要时统计成就失败: %v\n", uuidStr, err)
			continue
		}
		payload, err := json.Marshal(buildProfile(u, achievements))
		if err != nil {
			fmt.Printf("校验用户 %s 概要时序列化失败: %v\n", uuidStr, err)
			continue
		}
		// 直接HSet而不走RefreshProfileCache，避免重新标脏
		LockRepository()
		err = database.RDB.HSet(database.Ctx, ProfileKey, uuidStr, payload).Err()
		UnlockRepository()
		if err != nil {
			fmt.Printf("校验用户 %s 概要时写入缓存失败: %v\n", uuidStr, err)
		}
	}
	return database.RDB.Del(database.Ctx, ProcessingDirtySetKey).Err()
}

// countAchievements 统计用户已解锁的成就数量。
// 解锁明细表由donation模块迁移，这里直接按表名查询避免包循环依赖。
func countAchievements(uuidStr string) (int, error) {
	var count int64
	err := database.DB.Table("achievement_unlocks").
		Where("user_uuid = ? AND deleted_at IS NULL", uuidStr).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("无法统计用户 %s 的成就数: %w", uuidStr, err)
	}
	return int(count), nil
}
