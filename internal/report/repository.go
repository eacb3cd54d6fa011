package report

import (
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

const (
	// CacheKey 是一个 Redis Hash 的键，用于缓存序列化后的用户报告。
	// Field: 用户的UUID
	// Value: UserReport 结构体的JSON序列化字符串
	CacheKey = "report:cache"
)

// GetReportCache 从Redis缓存中获取用户报告。
func GetReportCache(userID string) (*UserReport, error) {
	result, err := database.RDB.HGet(database.Ctx, CacheKey, userID).Result()
	if err == redis.Nil {
		return nil, nil // 缓存未命中，是正常情况，不返回错误
	}
	if err != nil {
		return nil, err // 其他Redis错误
	}

	var report UserReport
	if err := json.Unmarshal([]byte(result), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SetReportCache 将用户报告存入Redis缓存。
func SetReportCache(report *UserReport, expire time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	// 使用Pipeline来原子地设置值和过期时间
	pipe := database.RDB.Pipeline()
	pipe.HSet(database.Ctx, CacheKey, report.UserID, data)
	pipe.HExpire(database.Ctx, CacheKey, expire, report.UserID)
	_, err = pipe.Exec(database.Ctx)
	return err
}
