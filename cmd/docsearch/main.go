package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"docsearch/internal/completion"
	"docsearch/internal/completion/cache"
	"docsearch/internal/completion/openai"
	"docsearch/internal/config"
	"docsearch/internal/docstore/fs"
	"docsearch/internal/domain"
	"docsearch/internal/engine"
	"docsearch/internal/logging"
	"docsearch/internal/metrics"
	"docsearch/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, docsDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docsearch/config.yaml if not provided)")
	flag.StringVar(&docsDir, "docs", "", "Documents folder (overrides documents.dir)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if docsDir != "" {
		cfg.Documents.Dir = docsDir
	}

	logger, closer, err := logging.New(cfg.Logging, logrus.Fields{"app": "docsearch"})
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
		logger.WithField("addr", cfg.Metrics.Addr).Info("serving metrics")
	}

	completer, release := buildCompleter(cfg, logger)
	defer release()

	store := fs.NewStore(cfg.Documents.Dir, cfg.Documents.Extension)
	eng := engine.New(store, completer, m, logger)
	n, err := eng.LoadDocuments(context.Background())
	if err != nil {
		log.Fatalf("failed to load documents: %v", err)
	}

	summary := fmt.Sprintf("Loaded %d documents from %s", n, store.Dir())
	if _, err := tea.NewProgram(tui.New(eng, summary), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return mux
}

// buildCompleter assembles the completion service. A missing API key or an
// unreachable cache degrades the service instead of stopping the program.
func buildCompleter(cfg *config.AppConfig, logger *logrus.Entry) (domain.CompletionService, func()) {
	release := func() {}

	var next domain.CompletionService
	switch cfg.Completion.Type {
	case "none", "":
		next = completion.Unavailable{Reason: "completion disabled"}
	case "openai":
		o := cfg.Completion.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:      o.BaseURL,
			APIKeyEnv:    o.APIKeyEnv,
			Model:        o.Model,
			SystemPrompt: cfg.Completion.SystemPrompt,
			MaxTokens:    o.MaxTokens,
			Temperature:  o.Temperature,
			Timeout:      time.Duration(o.TimeoutSecs) * time.Second,
			MaxRetries:   o.MaxRetries,
		})
		if err != nil {
			logger.WithError(err).Warn("completion service unavailable")
			return completion.Unavailable{Reason: err.Error()}, release
		}
		next = client
	default:
		log.Fatalf("unknown completion service: %s", cfg.Completion.Type)
	}

	switch cfg.Cache.Type {
	case "none", "":
		return next, release
	case "redis":
		r := cfg.Cache.Redis
		rs, err := cache.NewRedisStore(cache.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB})
		if err != nil {
			logger.WithError(err).WithField("addr", r.Addr).Warn("answer cache disabled")
			return next, release
		}
		release = func() { _ = rs.Close() }
		return cache.New(next, rs, time.Duration(r.TTLSecs)*time.Second, logger), release
	default:
		log.Fatalf("unknown cache: %s", cfg.Cache.Type)
	}
	return next, release
}
