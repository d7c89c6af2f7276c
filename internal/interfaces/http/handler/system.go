package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	dbPinger  func() error
	dbStats   func() map[string]any
}

// NewSystemHandler creates a new SystemHandler. dbPinger reports database
// reachability for the readiness probe; nil disables the check. dbStats
// supplies connection pool numbers for the readiness payload.
func NewSystemHandler(dbPinger func() error, dbStats func() map[string]any) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		dbPinger:  dbPinger,
		dbStats:   dbStats,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Storefront Builder API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Storefront Builder API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Health reports liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness, including database reachability
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.dbPinger != nil {
		if err := h.dbPinger(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}

	payload := gin.H{"status": "ready"}
	if h.dbStats != nil {
		payload["database"] = h.dbStats()
	}
	c.JSON(http.StatusOK, payload)
}
