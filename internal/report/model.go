package report

import "time"

// UserReport 是一份捐赠者影响力报告。
// 它汇总了用户的捐赠画像，供个人主页一次性展示。
type UserReport struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`

	Tier            string  `json:"tier"`
	TotalPoints     int64   `json:"totalPoints"`
	LifetimeDonated float64 `json:"lifetimeDonated"`
	TotalDonations  int64   `json:"totalDonations"`
	Streak          int     `json:"streak"`

	// Rank 是全站积分排名（从1开始），RankPercent 是超越比例
	Rank        int64   `json:"rank"`
	RankPercent float64 `json:"rankPercent"`

	// TypeBreakdown 是各捐赠类型的笔数
	TypeBreakdown map[string]int64 `json:"typeBreakdown"`

	// FavoriteStorage 是用户捐赠次数最多的站点
	FavoriteStorageID   string `json:"favoriteStorageId,omitempty"`
	FavoriteStorageName string `json:"favoriteStorageName,omitempty"`

	AchievementCount int `json:"achievementCount"`

	GeneratedAt time.Time `json:"generatedAt"`
}
