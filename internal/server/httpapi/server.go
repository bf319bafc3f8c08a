// Package httpapi exposes the session and contact operations as a JSON HTTP
// API for the browser presentation layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/contactgain/contactgain/internal/logging"
	"github.com/contactgain/contactgain/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Server struct {
	address  string
	logger   logging.Logger
	sessions *services.SessionService
	contacts *services.ContactService
}

func NewServer(address string, l logging.Logger, ss *services.SessionService, cs *services.ContactService) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		sessions: ss,
		contacts: cs,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.POST("/sessions", s.createSession)
	api.GET("/sessions", s.listSessions)
	api.GET("/sessions/:shortID", s.getSession)
	api.GET("/sessions/:shortID/status", s.getStatus)
	api.GET("/sessions/:shortID/status/stream", s.streamStatus)
	api.POST("/sessions/:shortID/contacts", s.submitContact)
	api.POST("/sessions/:shortID/download", s.download)
	api.DELETE("/sessions/:id", s.hideSession)

	return router
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
