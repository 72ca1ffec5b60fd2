package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"block-battle/internal/api/ws"
)

// @Summary Server banner
// @Description Static text confirming the server is up
// @Tags Meta
// @Produce plain
// @Success 200 {string} string "Block Battle server is running"
// @Router / [get]
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Block Battle server is running")
	}
}

// @Summary Health check
// @Description Liveness probe for load balancers
// @Tags Meta
// @Produce json
// @Success 200 {object} http.HealthResponse
// @Router /healthz [get]
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// @Summary Server statistics
// @Description Live session and room counts, answered by the hub loop
// @Tags Meta
// @Produce json
// @Success 200 {object} http.StatsResponse
// @Failure 503 {object} map[string]string
// @Router /stats [get]
func StatsHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := hub.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
			return
		}
		c.JSON(http.StatusOK, StatsResponse{
			Sessions:      st.Sessions,
			Rooms:         st.Rooms,
			RoomsByStatus: st.RoomsByStatus,
			Uptime:        hub.Uptime().Round(time.Second).String(),
		})
	}
}
