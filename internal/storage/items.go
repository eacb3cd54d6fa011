package storage

import (
	"fmt"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// ListOpenRequests 返回尚未满足的物资需求，按紧急程度降序排列。
// storageID为空时返回全部站点的需求。
func ListOpenRequests(storageID string) ([]MissingItemRequest, error) {
	query := database.DB.Where("fulfilled = ?", false)
	if storageID != "" {
		query = query.Where("storage_id = ?", storageID)
	}

	var rows []MissingItemRequest
	if err := query.Order("urgency_level DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法读取物资需求列表: %w", err)
	}
	return rows, nil
}

// openRequestCounts 按站点统计未满足的需求数，供聚光权重使用。
func openRequestCounts() (map[string]int64, error) {
	type requestCount struct {
		StorageID string
		Total     int64
	}
	var rows []requestCount
	err := database.DB.Model(&MissingItemRequest{}).
		Select("storage_id, COUNT(*) AS total").
		Where("fulfilled = ?", false).
		Group("storage_id").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("无法统计站点的物资需求数: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.StorageID] = row.Total
	}
	return counts, nil
}
