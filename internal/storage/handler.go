package storage

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/leaderboard"
)

// StorageResponse 是站点列表中的一项
type StorageResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`

	// GymLeader 是该站点积分榜首的用户，尚无捐赠时为空
	GymLeaderID   string `json:"gymLeaderId,omitempty"`
	GymLeaderName string `json:"gymLeaderName,omitempty"`
}

// GetStorages 处理 GET /api/storages，返回完整的站点目录。
func GetStorages(c *gin.Context) {
	count := GetStorageCount()
	response := make([]StorageResponse, 0, count)
	for i := 0; i < count; i++ {
		id, _ := GetStorageIDByIndex(i)
		info, _ := GetStorageInfoByIndex(i)
		entry := StorageResponse{
			ID:          id,
			Name:        info.Name,
			Address:     info.Address,
			City:        info.City,
			Latitude:    info.Latitude,
			Longitude:   info.Longitude,
			Description: info.Description,
		}
		if leaderID, leaderName, err := leaderboard.GymLeader(id); err == nil {
			entry.GymLeaderID = leaderID
			entry.GymLeaderName = leaderName
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

// GetSpotlight 处理 GET /api/storages/spotlight。
// 按"冷门优先"权重选出一个站点，给捐赠较少的站点更多露出。
func GetSpotlight(c *gin.Context) {
	id, info, err := PickSpotlight()
	if err != nil {
		fmt.Printf("选取聚光站点失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法选取聚光站点"})
		return
	}

	entry := StorageResponse{
		ID:          id,
		Name:        info.Name,
		Address:     info.Address,
		City:        info.City,
		Latitude:    info.Latitude,
		Longitude:   info.Longitude,
		Description: info.Description,
	}
	if leaderID, leaderName, err := leaderboard.GymLeader(id); err == nil {
		entry.GymLeaderID = leaderID
		entry.GymLeaderName = leaderName
	}
	c.JSON(http.StatusOK, entry)
}

// MissingItemResponse 是物资需求列表中的一项
type MissingItemResponse struct {
	StorageID         string `json:"storageId"`
	StorageName       string `json:"storageName"`
	ItemName          string `json:"itemName"`
	UrgencyLevel      int    `json:"urgencyLevel"`
	RequestedQuantity int    `json:"requestedQuantity"`
	BonusPoints       int64  `json:"bonusPoints"`
}

// GetNeeds 处理 GET /api/storages/needs?storage_id=..
// 返回尚未满足的物资需求，不传storage_id时返回全部站点的需求。
func GetNeeds(c *gin.Context) {
	storageID := c.Query("storage_id")
	if storageID != "" && !Exists(storageID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "站点不存在"})
		return
	}

	requests, err := ListOpenRequests(storageID)
	if err != nil {
		fmt.Printf("读取物资需求列表失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取物资需求列表"})
		return
	}

	response := make([]MissingItemResponse, 0, len(requests))
	for _, r := range requests {
		entry := MissingItemResponse{
			StorageID:         r.StorageID,
			ItemName:          r.ItemName,
			UrgencyLevel:      r.UrgencyLevel,
			RequestedQuantity: r.RequestedQuantity,
			BonusPoints:       r.BonusPoints,
		}
		if index, ok := GetStorageIndexByID(r.StorageID); ok {
			if info, ok := GetStorageInfoByIndex(index); ok {
				entry.StorageName = info.Name
			}
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

// GetNearest 处理 GET /api/storages/nearest?lat=..&lon=..
func GetNearest(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少有效的lat/lon参数"})
		return
	}

	id, distance, ok := FindNearest(lat, lon)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "站点目录为空"})
		return
	}

	index, _ := GetStorageIndexByID(id)
	info, _ := GetStorageInfoByIndex(index)
	c.JSON(http.StatusOK, gin.H{
		"id":         id,
		"name":       info.Name,
		"address":    info.Address,
		"latitude":   info.Latitude,
		"longitude":  info.Longitude,
		"distanceKm": distance,
	})
}
