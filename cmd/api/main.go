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

	"github.com/joho/godotenv"

	"github.com/itsmezubair/assistant/internal/config"
	"github.com/itsmezubair/assistant/internal/handler"
	"github.com/itsmezubair/assistant/internal/handler/ask"
	"github.com/itsmezubair/assistant/internal/service/ai"
	"github.com/itsmezubair/assistant/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sessionStore := newStore(cfg.Store)

	var generator ask.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("falling back to the echo generator")
			generator = ai.EchoGenerator{}
		} else {
			log.Println("chat model initialized")
			generator = aiService
		}
	} else {
		log.Println("model credentials not configured, using the echo generator")
		generator = ai.EchoGenerator{}
	}

	log.Printf("history mode: %s", cfg.History)

	router := handler.NewRouter(sessionStore, generator, cfg.History)
	startServer(ctx, cfg.Server, router)
}

func newStore(cfg config.StoreConfig) store.Store {
	if cfg.Backend == "file" {
		path := cfg.Path
		if path == "" {
			path = store.DefaultLocalPath()
		}
		log.Printf("session store: file (%s)", path)
		return store.NewLocalStore(path)
	}
	log.Println("session store: memory")
	return store.NewMemoryStore()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
