// Package api exposes bridge observability over REST: session traffic
// counters, host information, and the latest telemetry.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/simlink-project/simlink/config"
	"github.com/simlink-project/simlink/internal/recorder"
	"github.com/simlink-project/simlink/internal/util"
	"github.com/simlink-project/simlink/simconnect"
)

// Snapshot holds the most recent telemetry row, updated by the bridge and
// served by the API.
type Snapshot struct {
	mu     sync.RWMutex
	at     time.Time
	fields map[string]float64
}

// Update replaces the snapshot contents.
func (s *Snapshot) Update(fields map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.at = time.Now().UTC()
	s.fields = fields
}

// Get returns the snapshot contents and their timestamp.
func (s *Snapshot) Get() (map[string]float64, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields, s.at
}

// Server is the REST API server for the bridge.
type Server struct {
	cfg      config.APIConfig
	logger   zerolog.Logger
	client   *simconnect.Client
	rec      *recorder.Recorder
	snapshot *Snapshot

	httpServer *http.Server
}

// NewServer creates an API server. rec may be nil when recording is
// disabled.
func NewServer(cfg config.APIConfig, client *simconnect.Client, rec *recorder.Recorder, snapshot *Snapshot) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		cfg:      cfg,
		logger:   util.ComponentLogger("api"),
		client:   client,
		rec:      rec,
		snapshot: snapshot,
	}
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.CorsOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.CorsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/api/status", s.handleStatus)
	router.GET("/api/telemetry/latest", s.handleLatest)
	router.GET("/api/telemetry/history", s.handleHistory)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.cfg.Port).Msg("API server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"protocol": s.client.Protocol().String(),
		"stats":    s.client.Stats(),
		"host":     util.GetSystemInfo(),
	})
}

func (s *Server) handleLatest(c *gin.Context) {
	fields, at := s.snapshot.Get()
	if fields == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no telemetry received yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded_at": at, "fields": fields})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recorder disabled"})
		return
	}
	rows, err := s.rec.Recent(100)
	if err != nil {
		s.logger.Error().Err(err).Msg("history query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
