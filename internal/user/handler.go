package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/gin-gonic/gin"
)

// --- API响应模型 ---

type RegisterUserRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email"`
}

type UserProfileResponse struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"displayName"`
	Tier            string  `json:"tier"`
	LifetimeDonated float64 `json:"lifetimeDonated"`
	TotalPoints     int64   `json:"totalPoints"`
	TotalDonations  int     `json:"totalDonations"`
	Streak          int     `json:"streak"`
	Achievements    int     `json:"achievements"`
}

// RegisterUserHandler 处理 POST /api/users。
// 把cookie中的临时UUID注册为正式用户，重复注册是幂等的。
func RegisterUserHandler(c *gin.Context) {
	userID, _ := c.Get(UserIDKey)
	uuidStr, ok := userID.(string)
	if !ok || !IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少有效的用户Cookie"})
		return
	}

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	if err := RegisterUser(uuidStr, req.DisplayName, req.Email); err != nil {
		fmt.Printf("注册用户 %s 失败: %v\n", uuidStr, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法注册用户"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": uuidStr, "displayName": req.DisplayName})
}

// GetMeHandler 处理 GET /api/users，返回当前cookie用户的概要。
func GetMeHandler(c *gin.Context) {
	userID, _ := c.Get(UserIDKey)
	uuidStr, ok := userID.(string)
	if !ok || !IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少有效的用户Cookie"})
		return
	}
	respondWithProfile(c, uuidStr)
}

// GetUserHandler 处理 GET /api/users/:id。
func GetUserHandler(c *gin.Context) {
	uuidStr := c.Param("id")
	if !IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "用户ID格式不正确"})
		return
	}
	respondWithProfile(c, uuidStr)
}

func respondWithProfile(c *gin.Context, uuidStr string) {
	profile, err := GetCachedProfile(uuidStr)
	if err != nil {
		if errors.Is(err, gamify.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		fmt.Printf("读取用户 %s 概要失败: %v\n", uuidStr, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取用户信息"})
		return
	}

	c.JSON(http.StatusOK, UserProfileResponse{
		ID:              uuidStr,
		DisplayName:     profile.DisplayName,
		Tier:            profile.Tier,
		LifetimeDonated: profile.LifetimeDonated,
		TotalPoints:     profile.TotalPoints,
		TotalDonations:  profile.TotalDonations,
		Streak:          profile.Streak,
		Achievements:    profile.Achievements,
	})
}
