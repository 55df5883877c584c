package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/catalog"
	"github.com/reewhy/musicplayer/internal/config"
	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/handlers"
	"github.com/reewhy/musicplayer/internal/httpclient"
	"github.com/reewhy/musicplayer/internal/library"
	"github.com/reewhy/musicplayer/internal/logger"
	"github.com/reewhy/musicplayer/internal/player"
	"github.com/reewhy/musicplayer/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	st := store.New(cfg.DBPath, appLogger)
	if err := st.Open(); err != nil {
		appLogger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	lib := library.New(st, appLogger)
	resolver := assets.NewResolver(cfg.DataDir)

	hc := httpclient.NewClient(nil, constants.MinRequestInterval)
	cat := catalog.NewClient(cfg.APIBaseURL, hc, appLogger)

	audio := player.NewHeadlessAudio(appLogger)
	engine := player.NewEngine(audio, cat, resolver, cfg.Quality, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := handlers.NewHandler(lib, cat, engine, resolver, appLogger)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	engine.ClearQueue()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exiting")
}
