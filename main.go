package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Lucifer7355/approval-checks/internal/checks"
	"github.com/Lucifer7355/approval-checks/internal/config"
	"github.com/Lucifer7355/approval-checks/internal/logging"
	"github.com/Lucifer7355/approval-checks/internal/metrics"
)

// Routes builds the router. The check routes are rate limited, and require an
// API key when s.keys is set. /apikeys is only served when adminToken is set.
//
// Request ID, logging and recovery wrap the whole router rather than going
// through mux's Use, so 404, 405 and panicking requests are logged too.
func (s *Server) Routes(limiter Limiter, gatherer prometheus.Gatherer, adminToken string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if s.keys != nil && adminToken != "" {
		r.Handle("/apikeys",
			RequireAdminTokenMiddleware(adminToken)(http.HandlerFunc(s.GenerateAPIKeyHandler)),
		).Methods(http.MethodPost)
	}

	api := r.NewRoute().Subrouter()
	api.Use(RateLimitMiddleware(limiter, s.logger))
	if s.keys != nil {
		api.Use(RequireAPIKeyMiddleware(s.keys, s.logger))
	}
	api.HandleFunc("/check-address", s.CheckAddressHandler).Methods(http.MethodPost)
	api.HandleFunc("/check-identity", s.CheckIdentityHandler).Methods(http.MethodPost)

	var h http.Handler = r
	h = logging.Recoverer(s.logger)(h)
	h = logging.RequestLogger(s.logger)(h)
	return middleware.RequestID(h)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.MustBuild(cfg.LogLevel, cfg.Env)
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkMetrics, err := metrics.New(reg)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	opts := []checks.Option{checks.WithRecorder(checkMetrics)}
	if cfg.LogIdentityRaw {
		opts = append(opts, checks.WithRawIdentityLogging())
	}
	srv := &Server{
		checks: checks.NewHandler(logger, opts...),
		logger: logger,
	}

	var limiter Limiter
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err := NewRedisStore(ctx, cfg.RedisURL, cfg.RateLimitTokens, cfg.RateLimitRefill)
		cancel()
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer store.Close()
		logger.Info("connected to redis")
		limiter, srv.keys, srv.health = store, store, store
	} else {
		logger.Info("REDIS_URL not set, using in-memory rate limiter without API keys")
		limiter = NewLocalLimiter(cfg.RateLimitTokens, cfg.RateLimitRefill)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(limiter, reg, cfg.AdminToken),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("approval checks API listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
