package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/SlpAus/goodwill-gym-backend/api"
	"github.com/SlpAus/goodwill-gym-backend/internal/donation"
	"github.com/SlpAus/goodwill-gym-backend/internal/notification"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/config"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/health"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/shutdown"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/startup"
	"github.com/SlpAus/goodwill-gym-backend/pkg/lifecycle"
	"github.com/SlpAus/goodwill-gym-backend/pkg/token"
)

func main() {
	// .env用于本地开发注入GOOGLE_API_KEY等敏感配置，文件缺失不是错误
	if err := godotenv.Load(); err == nil {
		fmt.Println("已加载.env文件。")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	gin.SetMode(cfg.Server.Mode)

	token.GenerateSecretKey()
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 初始化鼓励消息生成器（失败不阻塞启动，回退到模板）
	if err := notification.InitAgent(); err != nil {
		fmt.Printf("初始化鼓励消息生成器失败: %v\n", err)
	}

	// 4. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 5. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	// 6. 创建两阶段停机的生命周期管理器，并启动后台任务
	gracefulManager := lifecycle.NewManager()
	forcefulManager := lifecycle.NewManager()

	resyncHandle, err := gracefulManager.NewServiceHandle("aggregate-resync")
	if err != nil {
		panic(fmt.Sprintf("无法注册后台任务: %v", err))
	}
	go donation.StartResyncScheduler(resyncHandle)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，编排两阶段优雅停机
	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.ListenForSignalsAndShutdown(server)
}
