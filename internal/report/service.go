package report

import (
	"fmt"
	"time"

	"github.com/SlpAus/goodwill-gym-backend/internal/donation"
	"github.com/SlpAus/goodwill-gym-backend/internal/leaderboard"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/storage"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

const (
	CacheTTL = 1 * time.Minute
)

// GenerateUserReport 是生成用户报告的统一入口。
// Redis健康时走缓存，降级时每次直接从SQLite生成。
func GenerateUserReport(userID string) (*UserReport, error) {
	if database.IsRedisHealthy() {
		if cached, err := GetReportCache(userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	report, err := buildReport(userID)
	if err != nil {
		return nil, err
	}

	if database.IsRedisHealthy() {
		if err := SetReportCache(report, CacheTTL); err != nil {
			fmt.Printf("写入用户 %s 的报告缓存失败: %v\n", userID, err)
		}
	}
	return report, nil
}

// buildReport 从权威数据组装一份完整的报告。
func buildReport(userID string) (*UserReport, error) {
	u, err := user.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := donation.CountUnlocks(userID)
	if err != nil {
		return nil, err
	}

	typeCounts, err := u.DecodeTypeCounts()
	if err != nil {
		return nil, fmt.Errorf("用户 %s 的type_counts列损坏: %w", userID, err)
	}

	report := &UserReport{
		UserID:           userID,
		DisplayName:      u.DisplayName,
		Tier:             user.ActiveRules().ClassifyTier(u.LifetimeDonated).String(),
		TotalPoints:      u.TotalPoints,
		LifetimeDonated:  u.LifetimeDonated,
		TotalDonations:   int64(u.TotalDonations),
		Streak:           u.Streak,
		TypeBreakdown:    typeCounts,
		AchievementCount: achievements,
		GeneratedAt:      time.Now(),
	}

	if database.IsRedisHealthy() {
		if rank, err := leaderboard.GetUserRank(userID); err == nil && rank > 0 {
			report.Rank = rank
			total, err := database.RDB.ZCard(database.Ctx, leaderboard.GlobalRankingKey).Result()
			if err == nil && total > 0 {
				report.RankPercent = 1.0 - float64(rank-1)/float64(total)
			}
		}
	}

	if favoriteID, err := favoriteStorage(userID); err == nil && favoriteID != "" {
		report.FavoriteStorageID = favoriteID
		if index, ok := storage.GetStorageIndexByID(favoriteID); ok {
			info, _ := storage.GetStorageInfoByIndex(index)
			report.FavoriteStorageName = info.Name
		}
	}

	return report, nil
}

// favoriteStorage 找出用户捐赠次数最多的站点。
func favoriteStorage(userID string) (string, error) {
	type row struct {
		StorageID string
		Total     int64
	}
	var result row
	err := database.DB.Model(&donation.Donation{}).
		Select("storage_id, COUNT(*) AS total").
		Where("user_uuid = ? AND storage_id != ''", userID).
		Group("storage_id").Order("total DESC").Limit(1).Scan(&result).Error
	if err != nil {
		return "", fmt.Errorf("无法统计用户 %s 的常去站点: %w", userID, err)
	}
	return result.StorageID, nil
}
