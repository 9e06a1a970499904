package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dtroode/gatekeeper-server/internal/api/http/router"
	"github.com/dtroode/gatekeeper-server/internal/api/http/server"
	"github.com/dtroode/gatekeeper-server/internal/config"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/notification"
	"github.com/dtroode/gatekeeper-server/internal/password"
	"github.com/dtroode/gatekeeper-server/internal/repository/postgres"
	securitylayer "github.com/dtroode/gatekeeper-server/internal/server"
	"github.com/dtroode/gatekeeper-server/internal/service"
	"github.com/dtroode/gatekeeper-server/internal/token"
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
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	ephemeralTokenRepo := postgres.NewEphemeralTokenRepository(db)

	hasher := password.New(password.Policy{
		MinLength:    cfg.Password.MinLength,
		RequireUpper: cfg.Password.RequireUpper,
		RequireLower: cfg.Password.RequireLower,
		RequireDigit: cfg.Password.RequireDigit,
	})
	tokenManager := token.NewJWT([]byte(cfg.JWT.Secret), cfg.JWT.AccessTTL)
	notifier := notification.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, db, cfg.Tokens.RefreshTTL, logger)
	ephemeralService := service.NewEphemeral(ephemeralTokenRepo, db, logger)
	authService := service.NewAuth(
		userRepo,
		hasher,
		tokenService,
		tokenManager,
		ephemeralService,
		notifier,
		db,
		cfg.App.BaseURL,
		service.LinkTTLs{
			Verification: cfg.Tokens.VerificationTTL,
			Reset:        cfg.Tokens.ResetTTL,
		},
		logger,
	)

	r := router.New(authService, db, cfg.App.RateLimit, cfg.App.RateLimitShort, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = securitylayer.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = securitylayer.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
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
