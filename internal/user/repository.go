package user

import (
	"sync"
)

// --- Redis 键名常量 ---

const (
	// KnownUsersKey 是一个Set，用于快速查找一个UUID是否是已注册的用户。
	// Key: known_users
	// Member: User UUID
	KnownUsersKey = "known_users"

	// ProfileKey 是一个 Redis Hash 的键，缓存每个用户的概要信息。
	// Field: 用户的UUID
	// Value: Profile 结构体的JSON序列化字符串
	ProfileKey = "user:profile"

	// DirtySetKey 是一个 Redis Set 的键，用于存储自上次聚合回写以来，
	// 档案发生变化的用户UUID。用于增量校验。
	DirtySetKey = "user:dirty"

	// ProcessingDirtySetKey 是一个 Redis Set 的键，
	// 后台校验时由 DirtySetKey 轮换而来，处理完即删除。
	ProcessingDirtySetKey = "user:dirty:processing"
)

// --- Redis 数据结构 ---

// Profile 定义了在 Redis 的 user:profile 哈希表中，
// 以JSON格式存储的用户概要数据结构。
type Profile struct {
	DisplayName     string  `json:"display_name"`
	Tier            string  `json:"tier"`
	LifetimeDonated float64 `json:"lifetime_donated"`
	TotalPoints     int64   `json:"total_points"`
	TotalDonations  int     `json:"total_donations"`
	Streak          int     `json:"streak"`
	Achievements    int     `json:"achievements"`
}

// --- 并发控制 ---

// repoMutex 是一个模块内部的、不导出的全局读写锁，
// 用于保护对本模块管理的Redis键的并发访问。
var repoMutex sync.RWMutex

// LockRepository 封装了对模块全局锁的写锁定操作。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 封装了对模块全局锁的写解锁操作。
func UnlockRepository() {
	repoMutex.Unlock()
}

// RLockRepository 封装了对模块全局锁的读锁定操作。
func RLockRepository() {
	repoMutex.RLock()
}

// RUnlockRepository 封装了对模块全局锁的读解锁操作。
func RUnlockRepository() {
	repoMutex.RUnlock()
}
