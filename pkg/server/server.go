// Package server exposes the campaign pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/report"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultRunTimeout bounds a single pipeline run triggered over HTTP.
const DefaultRunTimeout = 5 * time.Minute

// Runner runs the campaign pipeline for one brief.
type Runner interface {
	Run(ctx context.Context, brief campaign.Brief) (result campaign.Result, err error)
}

// Options tunes the HTTP server.
type Options struct {
	AllowOrigins []string
	RunTimeout   time.Duration
	Logger       *zap.Logger
}

// Server serves the campaign API.
type Server struct {
	runner  Runner
	logger  *zap.Logger
	timeout time.Duration
	engine  *gin.Engine
}

// New creates a server that runs briefs through runner.
func New(runner Runner, opts Options) (s *Server) {
	s = &Server{
		runner:  runner,
		logger:  opts.Logger,
		timeout: opts.RunTimeout,
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if s.timeout <= 0 {
		s.timeout = DefaultRunTimeout
	}

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s.attachRoutes(r)
	s.engine = r

	return s
}

func (s *Server) attachRoutes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/campaigns", s.createCampaign)
		v1.GET("/briefs/sample", s.sampleBrief)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() (h http.Handler) {
	h = s.engine
	return h
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("campaign API listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = errors.Wrap(err, "server failed")
		}
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.logger.Info("shutting down campaign API")
		err = srv.Shutdown(shutdownCtx)
		if err != nil {
			err = errors.Wrap(err, "server shutdown failed")
			return err
		}
		<-errCh
	}

	return err
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) sampleBrief(c *gin.Context) {
	c.JSON(http.StatusOK, campaign.SampleBrief())
}

// createCampaign runs the pipeline for the posted brief. ?format=markdown
// returns the rendered document instead of the JSON bundle.
func (s *Server) createCampaign(c *gin.Context) {
	var brief campaign.Brief
	if err := c.ShouldBindJSON(&brief); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := brief.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	format, err := report.NormalizeFormat(c.DefaultQuery("format", report.FormatJSON))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	result, err := s.runner.Run(ctx, brief)
	if err != nil {
		s.logger.Warn("campaign run failed", zap.String("topic", brief.Topic), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}

	switch format {
	case report.FormatMarkdown:
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.RenderMarkdown(result)))
	case report.FormatYAML:
		c.YAML(http.StatusOK, result)
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) requestLogger() (h gin.HandlerFunc) {
	h = func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return h
}
