package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bate-papo/backend/config"
	"bate-papo/backend/database"
	"bate-papo/backend/handlers"
	"bate-papo/backend/lock"
	"bate-papo/backend/middleware"
	"bate-papo/backend/services"
	"bate-papo/backend/sweeper"
	"bate-papo/backend/websocket"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		zap.S().Fatalw("server terminated", "error", err)
	}
}

func run(cfg *config.Config) error {
	if !cfg.EnvFileLoaded {
		zap.S().Info("No .env file found, relying on environment variables.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectMongoDB(ctx, cfg.MongoDBURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer database.DisconnectMongoDB(db)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	participants := database.NewParticipantStore(db)
	messages := database.NewMessageStore(db)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	opts := []services.Option{
		services.WithLocation(cfg.Location),
		services.WithPublisher(hub),
	}
	presence := services.NewPresence(participants, messages, opts...)
	messaging := services.NewMessaging(participants, messages, opts...)

	sweepCfg := sweeper.Config{
		Interval:    cfg.SweepInterval,
		IdleTimeout: cfg.IdleTimeout,
		Location:    cfg.Location,
		Publisher:   hub,
	}
	if cfg.RedisURL != "" {
		owner, _ := os.Hostname()
		locker, err := lock.NewRedisLocker(ctx, cfg.RedisURL, owner+"-"+uuid.NewString())
		if err != nil {
			return err
		}
		defer locker.Close()
		sweepCfg.Locker = locker
	}
	sweep := sweeper.New(participants, messages, sweepCfg)
	if err := sweep.Start(); err != nil {
		return err
	}
	defer sweep.Stop()

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware, middleware.UserMiddleware)

	// 健康檢查路由
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Backend is running!")
	}).Methods(http.MethodGet)

	handlers.New(presence, messaging).Register(router)
	router.HandleFunc("/ws", hub.HandleConnections).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.UserHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      c.Handler(router),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zap.S().Infow("server starting", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen on %s: %w", serverAddr, err)
	case <-ctx.Done():
		zap.S().Info("received shutdown signal, shutting down server...")
	}

	// 最多等30秒關閉，避免資料損壞，請求中斷
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zap.S().Info("Server exited gracefully.")
	return nil
}
