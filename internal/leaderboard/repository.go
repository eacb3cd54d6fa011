package leaderboard

import "sync"

// --- Redis 键名常量 ---

const (
	// GlobalRankingKey 是一个 Redis Sorted Set 的键，存储全站积分排行。
	// Score: 用户的累计积分
	// Member: 用户的UUID
	GlobalRankingKey = "leaderboard:global"

	// StorageRankingKeyPrefix 是各站点排行的键前缀，后接站点ID。
	// Score: 用户在该站点获得的积分
	// Member: 用户的UUID
	StorageRankingKeyPrefix = "leaderboard:storage:"
)

// StorageRankingKey 拼出指定站点的排行键。
func StorageRankingKey(storageID string) string {
	return StorageRankingKeyPrefix + storageID
}

// repoMutex 保护对本模块管理的Redis键的并发访问。
var repoMutex sync.RWMutex

func LockRepository()    { repoMutex.Lock() }
func UnlockRepository()  { repoMutex.Unlock() }
func RLockRepository()   { repoMutex.RLock() }
func RUnlockRepository() { repoMutex.RUnlock() }
