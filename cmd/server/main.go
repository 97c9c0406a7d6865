package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/pitchboard/pitchboard/internal/asset"
	"github.com/pitchboard/pitchboard/internal/config"
	"github.com/pitchboard/pitchboard/internal/export"
	"github.com/pitchboard/pitchboard/internal/item"
	"github.com/pitchboard/pitchboard/internal/live"
	mw "github.com/pitchboard/pitchboard/internal/middleware"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	icons := render.NewIconCache(cfg.IconDir)
	if cfg.IconDir != "" {
		if err := icons.Preload(render.IconNames()...); err != nil {
			slog.Warn("some icons unavailable, using vector shapes", "dir", cfg.IconDir, "error", err)
		}
	}
	raster, err := render.NewRaster(icons)
	if err != nil {
		slog.Error("init renderer", "error", err)
		os.Exit(1)
	}

	itemService := item.NewService(store, raster, cfg.PreviewWidth, cfg.PreviewHeight)
	itemHandler := item.NewHandler(itemService)
	exportHandler := export.NewHandler(itemService, export.NewExporter(raster, render.NewSVG(icons)))
	assetHandler := asset.NewHandler(icons)

	originHosts, err := cfg.OriginHosts()
	if err != nil {
		slog.Error("parse allowed origins", "error", err)
		os.Exit(1)
	}
	hub := live.NewHub()
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	itemHandler.Register(api)
	exportHandler.Register(api)
	assetHandler.Register(r, api)

	// Live editor sessions
	r.Handle("/ws/editor", live.NewHandler(hub, itemService, originHosts))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close live sessions first; Shutdown does not wait for hijacked connections.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
