package metadata

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// StatsResponse 是平台级汇总数字
type StatsResponse struct {
	TotalDonations int64   `json:"totalDonations"`
	TotalPoints    int64   `json:"totalPoints"`
	TotalAmount    float64 `json:"totalAmount"`
}

// GetStats 处理 GET /api/stats。
// Redis健康时读实时计数器，降级时直接从SQLite聚合。
func GetStats(c *gin.Context) {
	if database.IsRedisHealthy() {
		values, err := database.RDB.MGet(database.Ctx, RedisTotalDonationsKey, RedisTotalPointsKey, RedisTotalAmountKey).Result()
		if err == nil && len(values) == 3 {
			c.JSON(http.StatusOK, StatsResponse{
				TotalDonations: parseInt(values[0]),
				TotalPoints:    parseInt(values[1]),
				TotalAmount:    parseFloat(values[2]),
			})
			return
		}
		fmt.Printf("读取Redis平台计数器失败: %v\n", err)
	}

	type aggregates struct {
		Count       int64
		TotalPoints int64
		TotalAmount float64
	}
	var agg aggregates
	err := database.DB.Table("donations").
		Select("COUNT(*) as count, COALESCE(SUM(points_awarded),0) as total_points, COALESCE(SUM(amount),0) as total_amount").
		Where("deleted_at IS NULL").
		Scan(&agg).Error
	if err != nil {
		fmt.Printf("从SQLite聚合平台数据失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取平台统计"})
		return
	}
	var rewardPoints int64
	if err := database.DB.Table("achievement_unlocks").
		Select("COALESCE(SUM(reward_points),0)").
		Where("deleted_at IS NULL").
		Scan(&rewardPoints).Error; err == nil {
		agg.TotalPoints += rewardPoints
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalDonations: agg.Count,
		TotalPoints:    agg.TotalPoints,
		TotalAmount:    agg.TotalAmount,
	})
}

func parseInt(value interface{}) int64 {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(value interface{}) float64 {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
