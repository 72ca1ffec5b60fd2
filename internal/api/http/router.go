package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"block-battle/internal/api/ws"
	"block-battle/internal/config"
	"block-battle/internal/logger"
)

// NewRouter builds the HTTP surface: the banner, health and stats
// endpoints, the websocket upgrade route and the swagger UI.
func NewRouter(hub *ws.Hub, cfg config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(log))
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/", RootHandler())
	r.GET("/healthz", HealthHandler())
	r.GET("/stats", StatsHandler(hub))
	r.GET("/ws", hub.HandleWS)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	// credentials cannot be combined with a wildcard origin
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = true
	}
	return c
}
