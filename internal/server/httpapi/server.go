// Package httpapi exposes the editorial lifecycle as a JSON API.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/biblio"
	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/service"
)

// Config carries the HTTP-layer settings.
type Config struct {
	// APIKey guards mutating and read endpoints under /api. Empty disables
	// the check (local development).
	APIKey string
	Biblio biblio.Config
}

// Server wires the paper service into gin handlers.
type Server struct {
	svc service.PaperService
	cfg Config
	log *zap.Logger
}

// New constructs the HTTP server.
func New(svc service.PaperService, cfg Config, log *zap.Logger) *Server {
	return &Server{svc: svc, cfg: cfg, log: log}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(apiKeyAuth(s.cfg.APIKey))

	papers := api.Group("/papers")
	papers.POST("", s.submit)
	papers.GET("/:sha", s.get)
	papers.GET("/:sha/status", s.status)
	papers.POST("/:sha/meta-review", s.startMetaReview)
	papers.POST("/:sha/review", s.startReview)
	papers.POST("/:sha/accept", s.accept)
	papers.POST("/:sha/reject", s.reject)
	papers.POST("/:sha/withdraw", s.withdraw)
	papers.POST("/:sha/state", s.overrideState)
	papers.POST("/:sha/invite", s.invite)
	papers.POST("/:sha/track", s.moveToTrack)
	papers.POST("/:sha/comment", s.comment)
	papers.PUT("/:sha/metadata", s.setMetadata)
	papers.PUT("/:sha/archives", s.setArchives)

	return router
}

func apiKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// writeError maps service sentinels onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrUnknownEditor),
		errors.Is(err, errs.ErrUnknownTrack):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrTerminalState),
		errors.Is(err, errs.ErrDuplicateTicket):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrGatewayFailure):
		status = http.StatusBadGateway
		gatewayFailures.Inc()
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
