// Package api serves leaderboards and profiles over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/config"
	"github.com/MyelinBots/statbot-go/internal/healthcheck"
	"github.com/MyelinBots/statbot-go/internal/services/leaderboard"
	"github.com/MyelinBots/statbot-go/internal/services/profile"
	"github.com/MyelinBots/statbot-go/internal/services/reconcile"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tryAgainLater = "try again later"

type Handler struct {
	board      *leaderboard.Reader
	profiles   *profile.Service
	reconcile  *reconcile.Service
	db         healthcheck.Pinger
	adminToken string
	log        *zap.Logger
}

func NewHandler(board *leaderboard.Reader, profiles *profile.Service, rec *reconcile.Service, db healthcheck.Pinger, adminToken string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		board:      board,
		profiles:   profiles,
		reconcile:  rec,
		db:         db,
		adminToken: adminToken,
		log:        log,
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg config.AppConfig, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CorsOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", healthcheck.HealthCheckHandler(h.db, h.reconcile.Status))

	api := r.Group("/api")
	{
		top := api.Group("/top")
		top.GET("/global", h.TopGlobal)
		top.GET("/community/:community", h.TopCommunity)
		top.GET("/community/:community/channel/:channel", h.TopChannel)

		api.GET("/profile/:user", h.Profile)

		admin := api.Group("/admin", h.requireAdmin)
		admin.POST("/sync", h.Sync)
	}
	return r
}

// Start serves r on the configured port until ctx is cancelled.
func Start(ctx context.Context, cfg config.AppConfig, r http.Handler, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// GET /api/top/global?limit=n
func (h *Handler) TopGlobal(c *gin.Context) {
	entries, err := h.board.TopGlobal(c.Request.Context(), limitParam(c))
	if err != nil {
		h.unavailable(c, "top global", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GET /api/top/community/:community?limit=n
func (h *Handler) TopCommunity(c *gin.Context) {
	community := strings.ToLower(c.Param("community"))
	entries, err := h.board.TopByCommunity(c.Request.Context(), community, limitParam(c))
	if err != nil {
		h.unavailable(c, "top community", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community, "entries": entries})
}

// GET /api/top/community/:community/channel/:channel?limit=n
// The leading '#' of an IRC channel is optional in the path.
func (h *Handler) TopChannel(c *gin.Context) {
	community := strings.ToLower(c.Param("community"))
	channel := strings.ToLower(c.Param("channel"))
	if !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}

	entries, err := h.board.TopByChannel(c.Request.Context(), community, channel, limitParam(c))
	if err != nil {
		h.unavailable(c, "top channel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community, "channel": channel, "entries": entries})
}

// GET /api/profile/:user?community=&channel=
func (h *Handler) Profile(c *gin.Context) {
	community := strings.ToLower(c.Query("community"))
	channel := strings.ToLower(c.Query("channel"))
	if channel != "" && !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}

	p, err := h.profiles.GetProfileIn(c.Request.Context(), strings.ToLower(c.Param("user")), community, channel)
	if err != nil {
		h.unavailable(c, "profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/admin/sync
func (h *Handler) Sync(c *gin.Context) {
	corrected, err := h.reconcile.Run(c.Request.Context())
	if err != nil {
		h.unavailable(c, "sync", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"corrected": corrected})
}

func (h *Handler) requireAdmin(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}

func (h *Handler) unavailable(c *gin.Context, op string, err error) {
	h.log.Error("api request failed", zap.String("op", op), zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": tryAgainLater})
}

// limitParam reads ?limit=, clamped to the leaderboard bounds.
func limitParam(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return leaderboard.DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return leaderboard.DefaultLimit
	}
	return leaderboard.ClampLimit(n)
}
