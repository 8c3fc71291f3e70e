package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"courtside/internal/config"
	apphttp "courtside/internal/http"
	"courtside/internal/identity"
	"courtside/internal/repository/sqlite"
	"courtside/internal/service"
	"courtside/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := sqlite.NewAccountRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	courtRepo := sqlite.NewCourtRepository(db)
	favoriteRepo := sqlite.NewFavoriteRepository(db)

	if err := accountRepo.Init(ctx); err != nil {
		logger.Fatalf("init account repository: %v", err)
	}
	if err := profileRepo.Init(ctx); err != nil {
		logger.Fatalf("init profile repository: %v", err)
	}
	if err := courtRepo.Init(ctx); err != nil {
		logger.Fatalf("init court repository: %v", err)
	}
	if err := favoriteRepo.Init(ctx); err != nil {
		logger.Fatalf("init favorite repository: %v", err)
	}

	verifiers := map[identity.OAuthProvider]identity.TokenVerifier{
		identity.ProviderGitHub: &identity.GitHubVerifier{APIBase: cfg.OAuth.GitHubAPIBase},
	}
	if cfg.OAuth.GoogleClientID != "" {
		verifiers[identity.ProviderGoogle] = &identity.GoogleVerifier{ClientID: cfg.OAuth.GoogleClientID}
	} else {
		logger.Warn("google oauth disabled: no client id configured")
	}

	provider := identity.NewService(
		accountRepo,
		verifiers,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	var imageStore storage.Service
	if cfg.Storage.Bucket != "" {
		imageStore, err = buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
	} else {
		logger.Warn("object storage disabled: court submissions require an image url")
	}

	authFlow := service.NewAuthFlow(provider, profileRepo)
	settingsSvc := service.NewSettings(provider, profileRepo)
	courtSvc := service.NewCourtService(courtRepo, favoriteRepo, imageStore, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		authFlow, settingsSvc, courtSvc, profileRepo, provider,
		time.Duration(cfg.Dashboard.ProfileTimeoutSeconds)*time.Second,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
