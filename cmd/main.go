package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/avdeev/vidtube-server/internal/api/http/handler"
	"github.com/avdeev/vidtube-server/internal/api/http/middleware"
	"github.com/avdeev/vidtube-server/internal/api/http/router"
	"github.com/avdeev/vidtube-server/internal/config"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/repository/postgres"
	"github.com/avdeev/vidtube-server/internal/service"
	storage "github.com/avdeev/vidtube-server/internal/storage/minio"
	"github.com/avdeev/vidtube-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	videoRepo := postgres.NewVideoRepository(db)
	historyRepo := postgres.NewWatchHistoryRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	mediaStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize media store", "error", err)
	}

	sessionService := service.NewSession(userRepo, mediaStore, tokenManager, logger.WithComponent("session"))
	channelService := service.NewChannel(userRepo, subscriptionRepo, videoRepo, historyRepo, logger.WithComponent("channel"))

	cookies := handler.CookieConfig{
		Secure:        cfg.Cookie.Secure,
		AccessMaxAge:  int(cfg.JWT.AccessTTL.Seconds()),
		RefreshMaxAge: int(cfg.JWT.RefreshTTL.Seconds()),
	}
	userHandler := handler.NewUserHandler(sessionService, logger, cfg.TmpDir, cookies)
	channelHandler := handler.NewChannelHandler(channelService, logger)
	authMiddleware := middleware.NewAuthenticate(tokenManager, logger)

	engine := router.New(userHandler, channelHandler, authMiddleware, logger).Register()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler: engine,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", server.Addr)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
