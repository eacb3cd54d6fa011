package donation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// DonationRequestBody 定义了前端提交捐赠时，请求体的JSON结构
type DonationRequestBody struct {
	Amount    float64 `json:"amount" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	StorageID string  `json:"storage_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DonationAPIResponse 是捐赠成功后的完整响应
type DonationAPIResponse struct {
	*gamify.DonationResult
	Receipt string `json:"receipt"`
	Message string `json:"message"`
}

// SubmitDonation 处理前端提交的捐赠
func SubmitDonation(c *gin.Context) {
	var body DonationRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	userID, _ := c.Get(user.UserIDKey)
	uuidStr, ok := userID.(string)
	if !ok || !user.IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少有效的用户Cookie"})
		return
	}

	processed, err := ProcessDonation(c.Request.Context(), uuidStr, body.Amount, gamify.DonationType(body.Type), body.StorageID, body.Latitude, body.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, gamify.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "捐赠金额必须为正数"})
		case errors.Is(err, gamify.ErrUnknownDonationType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的捐赠类型: " + body.Type})
		case errors.Is(err, ErrUnknownStorage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的捐赠站点: " + body.StorageID})
		case errors.Is(err, gamify.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "用户尚未注册"})
		case errors.Is(err, gamify.ErrVersionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "并发冲突，请稍后重试"})
		case errors.Is(err, gamify.ErrPersistenceUnavailable):
			fmt.Printf("处理捐赠失败，存储不可用: %v\n", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "服务暂时不可用"})
		default:
			fmt.Printf("处理捐赠失败: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理捐赠失败"})
		}
		return
	}

	c.JSON(http.StatusOK, DonationAPIResponse{
		DonationResult: processed.Result,
		Receipt:        processed.Receipt,
		Message:        processed.Message,
	})
}

// AchievementResponse 是成就目录中的一项，附带当前用户的解锁状态
type AchievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Reward      int64  `json:"reward"`
	Unlocked    bool   `json:"unlocked"`
}

// GetAchievements 返回完整的成就目录，并标记当前用户已解锁的项
func GetAchievements(c *gin.Context) {
	unlocked := map[string]bool{}
	if userID, exists := c.Get(user.UserIDKey); exists {
		if uuidStr, ok := userID.(string); ok && user.IsValidUUID(uuidStr) {
			state, err := LoadUserState(uuidStr)
			if err == nil {
				unlocked = state.Unlocked
			} else if !errors.Is(err, gamify.ErrUserNotFound) {
				fmt.Printf("读取用户 %s 的成就解锁记录失败: %v\n", uuidStr, err)
			}
		}
	}

	catalog := gamify.DefaultCatalog()
	response := make([]AchievementResponse, 0, len(catalog))
	for _, a := range catalog {
		response = append(response, AchievementResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Emoji:       a.Emoji,
			Reward:      a.Reward,
			Unlocked:    unlocked[a.ID],
		})
	}
	c.JSON(http.StatusOK, response)
}

// HistoryDonationResponse 是捐赠历史中的一条记录
type HistoryDonationResponse struct {
	ID            uint    `json:"id"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Timestamp     string  `json:"timestamp"`
	StorageID     string  `json:"storageId"`
	PointsAwarded int64   `json:"pointsAwarded"`
}

// GetDonationHistory 返回当前用户最近的捐赠流水
func GetDonationHistory(c *gin.Context) {
	userID, _ := c.Get(user.UserIDKey)
	uuidStr, ok := userID.(string)
	if !ok || !user.IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少有效的用户Cookie"})
		return
	}

	var rows []Donation
	if err := database.DB.Where("user_uuid = ?", uuidStr).
		Order("id DESC").Limit(50).Find(&rows).Error; err != nil {
		fmt.Printf("读取用户 %s 的捐赠历史失败: %v\n", uuidStr, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取捐赠历史"})
		return
	}

	response := make([]HistoryDonationResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, HistoryDonationResponse{
			ID:            row.ID,
			Amount:        row.Amount,
			Type:          string(row.Type),
			Timestamp:     row.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			StorageID:     row.StorageID,
			PointsAwarded: row.PointsAwarded,
		})
	}
	c.JSON(http.StatusOK, response)
}
