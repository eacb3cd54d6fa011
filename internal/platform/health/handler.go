package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// Handler 处理 GET /api/health。
// Redis降级不影响写路径，所以只要进程活着就返回200。
func Handler(c *gin.Context) {
	status := "ok"
	if !database.IsRedisHealthy() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"redis":  database.IsRedisHealthy(),
	})
}
