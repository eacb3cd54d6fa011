package report

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// GetUserReport 处理 GET /api/users/:id/report。
func GetUserReport(c *gin.Context) {
	uuidStr := c.Param("id")
	if !user.IsValidUUID(uuidStr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "用户ID格式不正确"})
		return
	}

	report, err := GenerateUserReport(uuidStr)
	if err != nil {
		if errors.Is(err, gamify.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		fmt.Printf("生成用户 %s 的报告失败: %v\n", uuidStr, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法生成报告"})
		return
	}
	c.JSON(http.StatusOK, report)
}
