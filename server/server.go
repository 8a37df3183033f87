package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/palette"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     *config.Config
	store   *Store
	janitor *Janitor
	method  palette.Method
	engine  *gin.Engine
}

func New(cfg *config.Config) (*Server, error) {
	method, err := palette.ParseMethod(cfg.Image.PaletteMethod)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(cfg.Server.OutputDir)
	if err != nil {
		return nil, err
	}
	janitor, err := NewJanitor(store, cfg.Server.CleanupSpec, cfg.Server.Retention)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		janitor: janitor,
		method:  method,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.MaxMultipartMemory = s.cfg.Server.MaxUploadSize

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/remove-background", s.removeBackground)
	v1.POST("/palette", s.extractPalette)
	v1.GET("/results/:id", s.result)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动 HTTP 服务和清理任务，ctx 结束时优雅退出
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.janitor.Start()
	defer s.janitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "output", s.store.Dir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
