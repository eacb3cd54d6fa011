package leaderboard

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// Rebuild 用SQLite聚合出的权威数据整体重建排行榜。
// global 是 用户UUID -> 累计积分，perStorage 是 站点ID -> (用户UUID -> 该站点积分)。
// 先清空旧键再批量写入，期间持有写锁，读请求会短暂阻塞而不是看到半成品。
func Rebuild(global map[string]int64, perStorage map[string]map[string]int64) error {
	LockRepository()
	defer UnlockRepository()

	pipe := database.RDB.TxPipeline()

	pipe.Del(database.Ctx, GlobalRankingKey)
	if len(global) > 0 {
		members := make([]redis.Z, 0, len(global))
		for uuidStr, points := range global {
			members = append(members, redis.Z{Score: float64(points), Member: uuidStr})
		}
		pipe.ZAdd(database.Ctx, GlobalRankingKey, members...)
	}

	for storageID, scores := range perStorage {
		key := StorageRankingKey(storageID)
		pipe.Del(database.Ctx, key)
		if len(scores) == 0 {
			continue
		}
		members := make([]redis.Z, 0, len(scores))
		for uuidStr, points := range scores {
			members = append(members, redis.Z{Score: float64(points), Member: uuidStr})
		}
		pipe.ZAdd(database.Ctx, key, members...)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("重建排行榜失败: %w", err)
	}
	fmt.Printf("排行榜重建完成: %d 名用户, %d 个站点。\n", len(global), len(perStorage))
	return nil
}
