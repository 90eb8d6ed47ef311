// =============================================================================
// Order Summarizer - HTTP Server Module
// =============================================================================
//
// This module serves the summarizer over HTTP so exports can be summarized
// without access to the input directory.
//
// ROUTES:
//   POST /api/v1/summaries   multipart upload (field "file"), returns the summary
//   GET  /healthz            liveness check
//   GET  /metrics            Prometheus metrics
//
// QUERY PARAMETERS (POST /api/v1/summaries):
//   format  json (default), text, xml, csv, xlsx
//   group   a or b; with format=text returns only that group's lines
//
// STATUS CODES:
//   400 bad request, 413 upload too large, 415 unsupported file type,
//   422 file could not be read
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/processor"
	"github.com/ginjaninja78/order-summarizer/internal/summary"
	"github.com/ginjaninja78/order-summarizer/internal/writer"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second

	// multipartMemory is how much of an upload is held in memory before
	// spilling to a temporary file.
	multipartMemory = 8 << 20
)

// Server exposes a Processor over HTTP.
type Server struct {
	proc    *processor.Processor
	cfg     config.ServerConfig
	logger  *zap.Logger
	metrics *metrics
	router  chi.Router
}

// New creates a Server. A nil logger disables request logging.
func New(proc *processor.Processor, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		proc:    proc,
		cfg:     cfg,
		logger:  logger.Named("server"),
		metrics: newMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures the router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// RequestID → RealIP → Logger → Recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/summaries", s.handleSummarize)
	})

	return r
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, giving in-flight requests up to 10 seconds to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return <-errCh
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleSummarize summarizes an uploaded export.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	format, group, err := parseOutputOptions(r)
	if err != nil {
		s.metrics.files.WithLabelValues("rejected").Inc()
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	maxBytes := s.cfg.MaxUploadMB << 20
	if r.ContentLength > maxBytes {
		s.metrics.files.WithLabelValues("rejected").Inc()
		s.renderError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.MaxUploadMB))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.metrics.files.WithLabelValues("rejected").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		s.renderError(w, r, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.files.WithLabelValues("rejected").Inc()
		s.renderError(w, r, http.StatusBadRequest, errors.New(`missing form file "file"`))
		return
	}
	defer file.Close()

	start := time.Now()
	res, err := s.proc.Summarize(header.Filename, file)
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, processor.ErrUnsupportedFormat) {
			s.metrics.files.WithLabelValues("unsupported").Inc()
			s.renderError(w, r, http.StatusUnsupportedMediaType, err)
			return
		}
		s.metrics.files.WithLabelValues("failed").Inc()
		s.logger.Warn("summarize failed", zap.String("file", header.Filename), zap.Error(err))
		s.renderError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	s.metrics.files.WithLabelValues("success").Inc()
	s.metrics.observeRows(res.Stats)

	var body bytes.Buffer
	if group != "" {
		g, _ := res.Group(group)
		body.WriteString(g.Text())
	} else if err := writer.Write(&body, res, format); err != nil {
		s.logger.Error("failed to encode summary", zap.String("format", string(format)), zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError, errors.New("failed to encode summary"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == writer.FormatXLSX {
		original := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", original+"_summary.xlsx"))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

// parseOutputOptions reads the format and group query parameters.
// group is returned only for format=text.
func parseOutputOptions(r *http.Request) (writer.Format, string, error) {
	query := r.URL.Query()

	format := writer.FormatJSON
	if name := query.Get("format"); name != "" {
		f, err := writer.ParseFormat(name)
		if err != nil {
			return "", "", err
		}
		format = f
	}

	group := query.Get("group")
	if group == "" {
		return format, "", nil
	}
	if format != writer.FormatText {
		return "", "", errors.New("group requires format=text")
	}
	if !summary.IsGroupKey(group) {
		return "", "", fmt.Errorf("unknown group %q (want a or b)", group)
	}
	return format, group, nil
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// requestLogger logs one line per request once it has been served.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
