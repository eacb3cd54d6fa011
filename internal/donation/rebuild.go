package donation

import (
	"fmt"
	"strconv"

	"github.com/SlpAus/goodwill-gym-backend/internal/leaderboard"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// userPoints 承接全站积分聚合查询的扫描结果
type userPoints struct {
	UUID        string
	TotalPoints int64
}

// storagePoints 承接按站点聚合查询的扫描结果
type storagePoints struct {
	StorageID string
	UserUUID  string
	Points    int64
}

// RebuildLeaderboards 从SQLite的权威数据整体重建Redis排行榜。
// 全站榜来自users表的累计积分，站点榜来自donations表按站点的积分合计。
func RebuildLeaderboards() error {
	var users []userPoints
	if err := database.DB.Model(&user.User{}).
		Select("uuid, total_points").Scan(&users).Error; err != nil {
		return fmt.Errorf("无法从users表聚合全站积分: %w", err)
	}
	global := make(map[string]int64, len(users))
	for _, u := range users {
		global[u.UUID] = u.TotalPoints
	}

	var rows []storagePoints
	if err := database.DB.Model(&Donation{}).
		Select("storage_id, user_uuid, SUM(points_awarded) AS points").
		Where("storage_id != ?", "").
		Group("storage_id, user_uuid").Scan(&rows).Error; err != nil {
		return fmt.Errorf("无法从donations表聚合站点积分: %w", err)
	}
	perStorage := make(map[string]map[string]int64)
	for _, row := range rows {
		if perStorage[row.StorageID] == nil {
			perStorage[row.StorageID] = make(map[string]int64)
		}
		perStorage[row.StorageID][row.UserUUID] = row.Points
	}

	return leaderboard.Rebuild(global, perStorage)
}

// ResyncAggregates 用SQLite的权威数据校正Redis中的全站汇总计数，
// 并把校正覆盖到的最后一条流水ID写入metadata表作为检查点。
func ResyncAggregates() error {
	type totals struct {
		Count  int64
		Points int64
		Amount float64
		MaxID  uint
	}
	var t totals
	err := database.DB.Model(&Donation{}).
		Select("COUNT(*) AS count, COALESCE(SUM(points_awarded), 0) AS points, COALESCE(SUM(amount), 0) AS amount, COALESCE(MAX(id), 0) AS max_id").
		Scan(&t).Error
	if err != nil {
		return fmt.Errorf("无法从donations表聚合汇总数据: %w", err)
	}

	// 成就奖励不在流水里，单独合计
	var rewardPoints int64
	err = database.DB.Model(&AchievementUnlock{}).
		Select("COALESCE(SUM(reward_points), 0)").Scan(&rewardPoints).Error
	if err != nil {
		return fmt.Errorf("无法从成就解锁表聚合奖励积分: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Set(database.Ctx, metadata.RedisTotalDonationsKey, strconv.FormatInt(t.Count, 10), 0)
	pipe.Set(database.Ctx, metadata.RedisTotalPointsKey, strconv.FormatInt(t.Points+rewardPoints, 10), 0)
	pipe.Set(database.Ctx, metadata.RedisTotalAmountKey, strconv.FormatFloat(t.Amount, 'f', -1, 64), 0)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("回写Redis汇总计数失败: %w", err)
	}

	if err := metadata.SetLastResyncDonationID(database.DB, t.MaxID); err != nil {
		return fmt.Errorf("更新聚合检查点失败: %w", err)
	}
	return nil
}
