package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// Entry 是排行榜中的一行
type Entry struct {
	Rank        int64   `json:"rank"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Tier        string  `json:"tier"`
	Points      int64   `json:"points"`
	Streak      int     `json:"streak"`
}

// ApplyDonation 在一笔捐赠落库后更新排行榜。
// 全站榜直接用最新的累计积分覆盖，站点榜按本笔新增积分累加。
func ApplyDonation(userUUID string, totalPoints int64, storageID string, earnedPoints int64) error {
	LockRepository()
	defer UnlockRepository()

	pipe := database.RDB.TxPipeline()
	pipe.ZAdd(database.Ctx, GlobalRankingKey, redis.Z{Score: float64(totalPoints), Member: userUUID})
	if storageID != "" {
		pipe.ZIncrBy(database.Ctx, StorageRankingKey(storageID), float64(earnedPoints), userUUID)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("更新排行榜失败: %w", err)
	}
	return nil
}

// GetTopEntries 返回全站排行榜的前limit名，并附带概要信息。
func GetTopEntries(limit int64) ([]Entry, error) {
	RLockRepository()
	defer RUnlockRepository()

	members, err := database.RDB.ZRevRangeWithScores(database.Ctx, GlobalRankingKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("无法读取全站排行榜: %w", err)
	}
	return decorateEntries(members)
}

// GetStorageTopEntries 返回指定站点排行榜的前limit名。
func GetStorageTopEntries(storageID string, limit int64) ([]Entry, error) {
	RLockRepository()
	defer RUnlockRepository()

	members, err := database.RDB.ZRevRangeWithScores(database.Ctx, StorageRankingKey(storageID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("无法读取站点 %s 的排行榜: %w", storageID, err)
	}
	return decorateEntries(members)
}

// GymLeader 返回站点榜首用户的UUID与昵称，榜单为空时返回空字符串。
func GymLeader(storageID string) (string, string, error) {
	RLockRepository()
	members, err := database.RDB.ZRevRangeWithScores(database.Ctx, StorageRankingKey(storageID), 0, 0).Result()
	RUnlockRepository()
	if err != nil {
		return "", "", fmt.Errorf("无法读取站点 %s 的榜首: %w", storageID, err)
	}
	if len(members) == 0 {
		return "", "", nil
	}
	uuidStr, _ := members[0].Member.(string)

	name := ""
	if profile, err := user.GetCachedProfile(uuidStr); err == nil {
		name = profile.DisplayName
	}
	return uuidStr, name, nil
}

// GetUserRank 返回用户在全站排行榜中的名次（从1开始）。
// 用户不在榜上时返回0。
func GetUserRank(userUUID string) (int64, error) {
	RLockRepository()
	defer RUnlockRepository()

	rank, err := database.RDB.ZRevRank(database.Ctx, GlobalRankingKey, userUUID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("无法读取用户 %s 的排名: %w", userUUID, err)
	}
	return rank + 1, nil
}

// decorateEntries 把zset成员补全为完整的排行条目。
// 概要缓存未命中的用户只保留UUID和分数。
func decorateEntries(members []redis.Z) ([]Entry, error) {
	entries := make([]Entry, 0, len(members))
	if len(members) == 0 {
		return entries, nil
	}

	fields := make([]string, len(members))
	for i, m := range members {
		fields[i], _ = m.Member.(string)
	}
	profiles, err := database.RDB.HMGet(database.Ctx, user.ProfileKey, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("无法批量读取用户概要: %w", err)
	}

	for i, m := range members {
		entry := Entry{
			Rank:   int64(i + 1),
			UserID: fields[i],
			Points: int64(m.Score),
		}
		if raw, ok := profiles[i].(string); ok {
			var profile user.Profile
			if err := json.Unmarshal([]byte(raw), &profile); err == nil {
				entry.DisplayName = profile.DisplayName
				entry.Tier = profile.Tier
				entry.Streak = profile.Streak
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
