package storage

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// checkinRadiusKm 是坐标自动归属站点的最大距离
const checkinRadiusKm = 0.5

// WarmupCache 从donations表聚合各站点的累计捐赠笔数，
// 结合未满足的物资需求数重建聚光权重树。
// 流水表由donation模块迁移，这里按表名查询避免包循环依赖。
func WarmupCache() error {
	type storageTotal struct {
		StorageID string
		Total     float64
	}
	var rows []storageTotal
	err := database.DB.Table("donations").
		Select("storage_id, COUNT(*) AS total").
		Where("storage_id != '' AND deleted_at IS NULL").
		Group("storage_id").Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("无法从donations表聚合站点捐赠数: %w", err)
	}

	requestCounts, err := openRequestCounts()
	if err != nil {
		return err
	}

	totals := make([]float64, GetStorageCount())
	for _, row := range rows {
		if index, ok := GetStorageIndexByID(row.StorageID); ok {
			totals[index] = row.Total
		}
	}
	openRequests := make([]int64, GetStorageCount())
	for id, count := range requestCounts {
		if index, ok := GetStorageIndexByID(id); ok {
			openRequests[index] = count
		}
	}

	LockRepository()
	defer UnlockRepository()
	if err := RebuildWeightsUnsafe(totals, openRequests); err != nil {
		return fmt.Errorf("重建站点聚光权重失败: %w", err)
	}
	fmt.Println("站点聚光权重预热完成。")
	return nil
}

// NoteDonation 在一笔捐赠落库后更新站点的累计笔数和聚光权重。
func NoteDonation(storageID string) {
	index, ok := GetStorageIndexByID(storageID)
	if !ok {
		return
	}
	LockRepository()
	defer UnlockRepository()
	total := GetTotalDonationsUnsafe(index) + 1
	if err := SetTotalDonationsUnsafe(index, total); err != nil {
		fmt.Printf("更新站点 %s 的聚光权重失败: %v\n", storageID, err)
	}
}

// PickSpotlight 按"冷门优先"权重随机选出一个聚光站点。
func PickSpotlight() (string, StorageInfo, error) {
	RLockRepository()
	defer RUnlockRepository()

	totalWeight := GetTotalWeightUnsafe()
	if totalWeight <= 0 {
		return "", StorageInfo{}, fmt.Errorf("聚光权重树为空")
	}

	index, err := FindByWeightUnsafe(rand.Float64() * totalWeight)
	if err != nil {
		return "", StorageInfo{}, fmt.Errorf("按权重选取站点失败: %w", err)
	}

	id, _ := GetStorageIDByIndex(index)
	info, _ := GetStorageInfoByIndex(index)
	return id, info, nil
}

// FindNearest 返回离给定坐标最近的站点及距离（公里）。
// 目录为空时返回false。
func FindNearest(latitude, longitude float64) (string, float64, bool) {
	count := GetStorageCount()
	if count == 0 {
		return "", 0, false
	}

	bestID := ""
	bestDistance := math.MaxFloat64
	for i := 0; i < count; i++ {
		info, _ := GetStorageInfoByIndex(i)
		d := haversineKm(latitude, longitude, info.Latitude, info.Longitude)
		if d < bestDistance {
			bestDistance = d
			bestID, _ = GetStorageIDByIndex(i)
		}
	}
	return bestID, bestDistance, true
}

// ResolveCheckin 根据坐标把一笔没有显式站点的捐赠归属到附近的站点。
// 超出签到半径时视为站外捐赠，返回空字符串。
func ResolveCheckin(latitude, longitude float64) string {
	if latitude == 0 && longitude == 0 {
		return ""
	}
	id, distance, ok := FindNearest(latitude, longitude)
	if !ok || distance > checkinRadiusKm {
		return ""
	}
	return id
}

// haversineKm 计算两点间的球面距离（公里）。
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
