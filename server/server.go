package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shoe-report/dashboard"
	"shoe-report/export"
	"shoe-report/models"
	"shoe-report/services"
	"shoe-report/storage"
	"shoe-report/utils"
)

const shutdownTimeout = 10 * time.Second

// Server serves the report dashboard. Every request loads the table from
// source again and computes a fresh report.
type Server struct {
	source   storage.TableSource
	reports  *services.ReportService
	renderer *dashboard.Renderer
	currency string
	logger   *utils.Logger
	engine   *gin.Engine
}

func New(source storage.TableSource, reports *services.ReportService, renderer *dashboard.Renderer,
	currency string, logger *utils.Logger) *Server {
	s := &Server{
		source:   source,
		reports:  reports,
		renderer: renderer,
		currency: currency,
		logger:   logger.Fields("server", "http"),
	}

	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/", s.handlePage)
	r.GET("/charts/:name", s.handleChart)
	r.GET("/export.xlsx", s.handleExport)
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then drains open requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("[server] Dashboard listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) report(c *gin.Context) (*models.Report, bool) {
	table, err := s.source.Load(c.Request.Context())
	if err != nil {
		s.logger.Error("[server] Load failed: %v", err)
		c.String(http.StatusInternalServerError, "failed to load listings: %v", err)
		return nil, false
	}
	return s.reports.Generate(table), true
}

func (s *Server) handlePage(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, r); err != nil {
		s.logger.Error("[server] Render failed: %v", err)
		c.String(http.StatusInternalServerError, "failed to render report: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleChart(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("name"), ".svg")

	r, ok := s.report(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := dashboard.RenderChart(&buf, name, r, s.currency)
	switch {
	case errors.Is(err, dashboard.ErrUnknownChart), errors.Is(err, dashboard.ErrNoData):
		c.String(http.StatusNotFound, err.Error())
	case err != nil:
		s.logger.Error("[server] Chart %s failed: %v", name, err)
		c.String(http.StatusInternalServerError, "failed to render chart: %v", err)
	default:
		c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
	}
}

func (s *Server) handleExport(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, r); err != nil {
		s.logger.Error("[server] Export failed: %v", err)
		c.String(http.StatusInternalServerError, "failed to export report: %v", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=shoe-report.xlsx")
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[server] %s %s %d %v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
