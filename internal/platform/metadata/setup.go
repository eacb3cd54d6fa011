package metadata

import (
	"fmt"
	"strconv"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// PrimeCachedDB 负责初始化metadata模块：迁移表结构并预热Redis计数器
func PrimeCachedDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	fmt.Println("Metadata数据库表迁移成功。")

	return WarmupCache()
}

// WarmupCache 从SQLite中的真实数据重建Redis中的平台级计数器。
// 捐赠流水是真相来源，计数器只是它的聚合缓存。
func WarmupCache() error {
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
		return fmt.Errorf("无法从SQLite聚合捐赠数据: %w", err)
	}

	// 成就奖励积分不在流水里，单独合计
	var rewardPoints int64
	err = database.DB.Table("achievement_unlocks").
		Select("COALESCE(SUM(reward_points),0)").
		Where("deleted_at IS NULL").
		Scan(&rewardPoints).Error
	if err != nil {
		return fmt.Errorf("无法从SQLite聚合成就奖励积分: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Set(database.Ctx, RedisTotalDonationsKey, strconv.FormatInt(agg.Count, 10), 0)
	pipe.Set(database.Ctx, RedisTotalPointsKey, strconv.FormatInt(agg.TotalPoints+rewardPoints, 10), 0)
	pipe.Set(database.Ctx, RedisTotalAmountKey, strconv.FormatFloat(agg.TotalAmount, 'f', -1, 64), 0)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热平台计数器到Redis失败: %w", err)
	}

	fmt.Printf("平台计数器预热完成 (捐赠 %d 笔)。\n", agg.Count)
	return nil
}
