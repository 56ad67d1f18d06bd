package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/ritlepage/backend/auth"
	"github.com/ritlepage/backend/conf"
	"github.com/ritlepage/backend/faculty"
	facultyhttp "github.com/ritlepage/backend/faculty/http"
	"github.com/ritlepage/backend/httpjson"
	"github.com/ritlepage/backend/logger"
	"github.com/ritlepage/backend/titlepage"
	tphttp "github.com/ritlepage/backend/titlepage/http"
)

const requestIDHeader = "X-Request-Id"

type HttpServer struct {
	router *chi.Mux
	stats  *statsLogger
}

// NewHttpServer wires the routes. directory may be nil, in which case the
// faculty lookup is not served.
func NewHttpServer(
	cfg *conf.Config,
	titlePageSrvc *titlepage.Service,
	directory *faculty.Directory,
) *HttpServer {
	router := chi.NewRouter()

	reqLogger := httplog.NewLogger("ritlepage", httplog.Options{
		LogLevel:         cfg.LogLevel,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/healthz"},
		QuietDownPeriod:  time.Minute,
	})

	stats := newStatsLogger(reqLogger.Logger, time.Minute)

	router.Use(httplog.RequestLogger(reqLogger))
	router.Use(requestIDMiddleware)
	router.Use(stats.middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.ApiKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition", "X-Document-Id", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           3000,
	}))

	router.Get("/healthz", healthz)

	router.Group(func(r chi.Router) {
		r.Use(auth.GetApiKeyMiddleware(cfg.APIKey))
		tphttp.NewTitlePageHttpHandler(titlePageSrvc).RegisterRoutes(r)
		if directory != nil {
			facultyhttp.NewFacultyHttpHandler(directory).RegisterRoutes(r)
		}
	})

	return &HttpServer{router: router, stats: stats}
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

// Start serves on address until ctx is cancelled, then drains in-flight
// requests.
func (httpserver *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           httpserver.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go httpserver.stats.run(statsCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestIDMiddleware tags the access log line and the service logger
// with one id, echoed back to the client.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		httplog.LogEntrySetField(r.Context(), "request_id", slog.StringValue(requestID))
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, map[string]string{"status": "ok"})
}
