package controller

import (
	"context"
	"net/http"
	"time"

	"skill_extractor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is satisfied by *service.RedisAnalysisCache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB *gorm.DB
	// Redis may be nil when caching is disabled.
	Redis Pinger
	Model string
}

func NewHealthController(db *gorm.DB, redis Pinger, model string) *HealthController {
	return &HealthController{DB: db, Redis: redis, Model: model}
}

// @Summary 健康检查
// @Description 检查数据库与缓存状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.ErrorResponse "数据库不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up", "model": c.Model}
	if c.Redis != nil {
		if err := c.Redis.Ping(pingCtx); err != nil {
			components["cache"] = "down"
		} else {
			components["cache"] = "up"
		}
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
