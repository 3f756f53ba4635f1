package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salespulse/backend/internal/infrastructure/config"
)

// SystemHandler serves health and runtime information
type SystemHandler struct {
	BaseHandler
	cfg       *config.Config
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ping", h.Ping)
	rg.GET("/system/info", h.GetSystemInfo)
}

// Health reports service liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ping answers with pong
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// GetSystemInfo reports runtime details
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h.Success(c, gin.H{
		"app": gin.H{
			"name": h.cfg.App.Name,
			"env":  h.cfg.App.Env,
		},
		"uptime":     time.Since(h.startTime).String(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
	})
}
