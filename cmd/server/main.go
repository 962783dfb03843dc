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

	"github.com/coder/websocket"
	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/editor-go/internal/collab"
	"github.com/inamate/inamate/editor-go/internal/config"
	"github.com/inamate/inamate/editor-go/internal/engine"
	mw "github.com/inamate/inamate/editor-go/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	if cfg.SlogLevel() <= slog.LevelDebug {
		gg.SetLogger(logger.With("component", "gg"))
	}

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		slog.Error("load settings", "error", err)
		os.Exit(1)
	}
	selectOpts, err := settings.Apply(cfg.SelectOptions())
	if err != nil {
		slog.Error("apply settings", "error", err)
		os.Exit(1)
	}

	engineOpts := []engine.Option{engine.WithSelectOptions(selectOpts)}
	if len(settings.Keybinds) > 0 {
		engineOpts = append(engineOpts, engine.WithKeybinds(settings.Keybinds))
	}

	hub := collab.NewHub(engineOpts...)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "snapAngle", selectOpts.SnapAngle, "keybinds", len(settings.Keybinds))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, origins []string) {
	vars := mux.Vars(r)
	projectID := vars["projectId"]

	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}
	userID := "anon-" + uuid.New().String()[:8]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, projectID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
