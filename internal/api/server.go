// Package api implements the read-only HTTP API over collected records.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchwatch/merchwatch/internal/config"
	"github.com/merchwatch/merchwatch/internal/database"
	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// RecordStore serves filtered record listings.
type RecordStore interface {
	List(ctx context.Context, filter database.RecordFilter) ([]domain.InformationRecord, error)
}

// RestockStore serves recent restock events.
type RestockStore interface {
	Recent(ctx context.Context, limit int) ([]domain.RestockEvent, error)
}

// Pinger reports backing-store liveness. Satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	records      RecordStore
	restocks     RestockStore
	pinger       Pinger
	log          logger.Interface
	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewServer creates the API server.
func NewServer(cfg *config.ServerConfig, records RecordStore, restocks RestockStore, pinger Pinger, log logger.Interface) *Server {
	return &Server{
		records:      records,
		restocks:     restocks,
		pinger:       pinger,
		log:          log.WithComponent("api"),
		addr:         cfg.Address,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/records", s.handleListRecords)
		v1.GET("/restocks/recent", s.handleRecentRestocks)
	}

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
