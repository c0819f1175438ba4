package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/pkg/response"
)

// SystemHandler 系统模块 HTTP 处理器
type SystemHandler struct {
	db        *gorm.DB
	startTime time.Time
	version   string
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(db *gorm.DB, version string) *SystemHandler {
	return &SystemHandler{db: db, startTime: time.Now(), version: version}
}

// Health 健康检查，含数据库连通性
// GET /api/system/health
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "up"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
	}

	status := "ok"
	if dbStatus != "up" {
		status = "degraded"
	}
	response.OK(c, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}

// Info 服务基本信息
// GET /api/system/info
func (h *SystemHandler) Info(c *gin.Context) {
	response.OK(c, gin.H{
		"name":    "印章管理系统",
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
	})
}
