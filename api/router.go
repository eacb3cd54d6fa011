package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/donation"
	"github.com/SlpAus/goodwill-gym-backend/internal/leaderboard"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/health"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/report"
	"github.com/SlpAus/goodwill-gym-backend/internal/storage"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", health.Handler)
		api.GET("/stats", metadata.GetStats)

		// 用户相关的路由组 /api/users
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("", user.EnsureUserCookieMiddleware(), user.LoadUserMiddleware(), user.RegisterUserHandler)
			userRoutes.GET("", user.LoadUserMiddleware(), user.GetMeHandler)
			userRoutes.GET("/:id", user.GetUserHandler)
			userRoutes.GET("/:id/report", report.GetUserReport)
		}

		// 捐赠相关的路由
		api.POST("/donations", user.LoadUserMiddleware(), donation.SubmitDonation)
		api.GET("/donations", user.LoadUserMiddleware(), donation.GetDonationHistory)
		api.GET("/achievements", user.LoadUserMiddleware(), donation.GetAchievements)

		// 排行榜相关的路由组 /api/leaderboard
		leaderboardRoutes := api.Group("/leaderboard")
		{
			leaderboardRoutes.GET("", user.LoadUserMiddleware(), leaderboard.GetLeaderboard)
			leaderboardRoutes.GET("/storage/:id", leaderboard.GetStorageLeaderboard)
		}

		// 站点相关的路由组 /api/storages
		storageRoutes := api.Group("/storages")
		{
			storageRoutes.GET("", storage.GetStorages)
			storageRoutes.GET("/spotlight", storage.GetSpotlight)
			storageRoutes.GET("/nearest", storage.GetNearest)
			storageRoutes.GET("/needs", storage.GetNeeds)
		}
	}
}
