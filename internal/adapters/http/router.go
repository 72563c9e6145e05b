package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/Lingo/internal/adapters/signal"
	"github.com/dkeye/Lingo/internal/app/orch"
	"github.com/dkeye/Lingo/internal/auth"
	"github.com/dkeye/Lingo/internal/config"
	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/metrics"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRouter serves the socket endpoint and the REST surface on one engine.
// ctx bounds every socket accepted through /ws.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, jwt *auth.JWT) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("LingoSessions", store))
	r.Use(ClientTokenMiddleware())

	ctrl := signal.NewSignalWSController(o, jwt, signal.OptionsFrom(cfg))
	r.GET("/ws", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": core.Timestamp(time.Now())})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	rooms := &RoomHandlers{Rooms: o, Now: time.Now}
	api := r.Group("/api")
	api.GET("/rooms", rooms.List)
	api.GET("/rooms/:id/members", rooms.Members)

	authed := api.Group("", BearerAuth(jwt))
	authed.POST("/rooms/:id/messages", rooms.PostMessage)
	authed.POST("/rooms/:id/kick", rooms.Kick)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
