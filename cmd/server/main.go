package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/flashdeck/internal/api"
	"github.com/ignite/flashdeck/internal/auth"
	"github.com/ignite/flashdeck/internal/config"
	"github.com/ignite/flashdeck/internal/genai/bedrock"
	"github.com/ignite/flashdeck/internal/genai/openai"
	"github.com/ignite/flashdeck/internal/pkg/logger"
	"github.com/ignite/flashdeck/internal/repository/postgres"
	"github.com/ignite/flashdeck/internal/service/deck"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
// This surfaces a stale process at boot instead of a confusing bind error
// later.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("config load failed", "error", err.Error())
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err.Error())
		os.Exit(1)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		logger.Error("pre-flight check failed", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("database open failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()
	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("database unreachable", "error", err.Error())
		os.Exit(1)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema setup failed", "error", err.Error())
		os.Exit(1)
	}

	// Generation provider
	var generator deck.Generator
	switch cfg.Generation.Provider {
	case "bedrock":
		generator, err = bedrock.NewClient(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID)
		if err != nil {
			logger.Error("bedrock client init failed", "error", err.Error())
			os.Exit(1)
		}
	default:
		if cfg.OpenAI.APIKey == "" {
			// Deployment misconfiguration: every generation call will fail
			// upstream until the key is supplied.
			logger.Warn("OPENAI_API_KEY is not set; deck generation will fail")
		}
		generator = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	logger.Info("generation provider ready", "provider", cfg.Generation.Provider)

	// Sessions: Redis when configured, in-process otherwise
	var sessions auth.Store
	if cfg.Auth.RedisURL != "" {
		redisStore, err := auth.NewRedisStore(cfg.Auth.RedisURL)
		if err != nil {
			logger.Error("redis session store init failed", "error", err.Error())
			os.Exit(1)
		}
		if err := redisStore.Ping(ctx); err != nil {
			logger.Error("redis unreachable", "error", err.Error())
			os.Exit(1)
		}
		sessions = redisStore
		logger.Info("session store ready", "backend", "redis")
	} else {
		memStore := auth.NewMemoryStore()
		memStore.StartJanitor(ctx, 5*time.Minute)
		sessions = memStore
		logger.Info("session store ready", "backend", "memory")
	}

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
	}
	if cfg.Auth.GoogleClientID == "" {
		logger.Warn("auth.google_client_id is not set; logins will fail")
	}
	authManager := auth.NewManager(cfg.Auth, baseURL, sessions)

	// Wire the pipeline and the HTTP layer
	deckService := deck.NewService(postgres.NewDeckRepo(db), generator)
	server := api.NewServer(api.NewHandlers(deckService), authManager)

	addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err.Error())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
	cancel()
}
