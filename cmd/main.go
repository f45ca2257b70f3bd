package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/aesthetiq/beauty-battle/internal/adapters/analyzer"
	"github.com/aesthetiq/beauty-battle/internal/adapters/http/api"
	"github.com/aesthetiq/beauty-battle/internal/adapters/http/swagger"
	"github.com/aesthetiq/beauty-battle/internal/adapters/repository"
	"github.com/aesthetiq/beauty-battle/internal/adapters/scorer"
	service "github.com/aesthetiq/beauty-battle/internal/app"
	"github.com/aesthetiq/beauty-battle/internal/config"
	"github.com/aesthetiq/beauty-battle/pkg/logger"
	"github.com/aesthetiq/beauty-battle/pkg/metrics"
)

// HTTP server timeout constants. Write timeout leaves room for a full
// upload-and-score round trip against a slow inference upstream.
const (
	readTimeout          = 60 * time.Second
	writeTimeout         = 2 * time.Minute
	idleTimeout          = 60 * time.Second
	readHeaderTimeout    = 5 * time.Second
	shutdownTimeout      = 30 * time.Second
	storeConnectTimeout  = 15 * time.Second
	storeMetricsInterval = 10 * time.Second
)

func main() {
	var (
		configPath string
		addrFlag   string
	)
	pflag.StringVar(&configPath, "config", "", "path to YAML config file (overrides BB_CONFIG)")
	pflag.StringVar(&addrFlag, "addr", "", "HTTP listen address (overrides config)")
	pflag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to initialize score store", logger.Error(err))
		return
	}
	defer cleanup()

	svc := service.New(store,
		service.WithLogger(log),
		service.WithScorer(scorer.NewHTTPScorer(cfg.ScorerURL,
			scorer.WithTimeout(time.Duration(cfg.ScorerTimeoutMS)*time.Millisecond),
		)),
		service.WithAnalyzer(analyzer.NewGeminiClient(cfg.GeminiAPIKey,
			analyzer.WithModel(cfg.GeminiModel),
			analyzer.WithEndpoint(cfg.GeminiEndpoint),
			analyzer.WithTimeout(time.Duration(cfg.GeminiTimeoutMS)*time.Millisecond),
		)),
		service.WithTopLimits(cfg.DefaultTopLimit, cfg.MaxLeaderboardLimit),
	)

	go startStoreMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	apiServer := api.NewServer(svc,
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithUploadDir(cfg.UploadDir),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithUploadRateLimit(cfg.UploadRateRPS, cfg.UploadRateBurst),
	)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newStore builds the configured score store. The returned cleanup is
// safe to call once at shutdown.
func newStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Info(ctx, "using in-memory store; records do not survive restarts")
		return repository.NewMemStore(ctx), func() {}, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		pg, err := repository.NewPGStore(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	}
}

// startStoreMetricsUpdater keeps the stored-scores gauge current.
func startStoreMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(storeMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateStoredScores(svc.Count(ctx))
		}
	}
}
