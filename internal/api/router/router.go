package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/api/handler"
	"github.com/DilipkumarRajan/training-request-portal/internal/api/middleware"
	"github.com/DilipkumarRajan/training-request-portal/pkg/redis"
	"github.com/DilipkumarRajan/training-request-portal/web"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时提交接口不限流
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("加载页面模板失败: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "store": cfg.Store.Driver})
	})

	// ── 表单页面 ──
	r.GET("/", h.Form.Page)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		form := v1.Group("/form")
		{
			form.GET("/options", h.Form.Options)
			form.GET("/constraints", h.Form.Constraints)
		}

		requests := v1.Group("/training-requests")
		{
			requests.POST("", middleware.RateLimit(rdb, cfg.RateLimit.SubmitLimit, cfg.RateLimit.Window), h.TrainingRequest.Submit)
			requests.GET("/calendar.ics", h.TrainingRequest.Calendar)
		}
	}

	return r, nil
}
