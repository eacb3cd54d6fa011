package leaderboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

const defaultLimit = 20
const maxLimit = 100

// GetLeaderboard 处理 GET /api/leaderboard。
// 返回全站积分排行，携带cookie的用户会附带自己的名次。
func GetLeaderboard(c *gin.Context) {
	limit := parseLimit(c)

	entries, err := GetTopEntries(limit)
	if err != nil {
		fmt.Printf("读取排行榜失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取排行榜"})
		return
	}

	response := gin.H{"entries": entries}
	if userID, exists := c.Get(user.UserIDKey); exists {
		if uuidStr, ok := userID.(string); ok && user.IsValidUUID(uuidStr) {
			if rank, err := GetUserRank(uuidStr); err == nil && rank > 0 {
				response["myRank"] = rank
			}
		}
	}
	c.JSON(http.StatusOK, response)
}

// GetStorageLeaderboard 处理 GET /api/leaderboard/storage/:id。
func GetStorageLeaderboard(c *gin.Context) {
	storageID := c.Param("id")
	if storageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少站点ID"})
		return
	}

	entries, err := GetStorageTopEntries(storageID, parseLimit(c))
	if err != nil {
		fmt.Printf("读取站点排行榜失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取站点排行榜"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"storageId": storageID, "entries": entries})
}

func parseLimit(c *gin.Context) int64 {
	limit := int64(defaultLimit)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
