package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skinloft/texture-library/internal/api"
	"github.com/skinloft/texture-library/pkg/texturelib"
	pgrepo "github.com/skinloft/texture-library/pkg/texturelib/repo/postgres"
	s3storage "github.com/skinloft/texture-library/pkg/texturelib/storage/s3"
)

type Config struct {
	Port      string `env:"PORT" env-default:"8080"`
	JWTSecret string `env:"JWT_SECRET" env-default:""`
	DB        DbConfig
	S3        S3Config
	Economy   EconomyConfig
}

type DbConfig struct {
	Port     uint16 `env:"TEXTURE_PG_PORT" env-default:"5432"`
	Host     string `env:"TEXTURE_PG_HOST" env-default:"localhost"`
	Name     string `env:"TEXTURE_PG_NAME" env-default:"texture_db"`
	User     string `env:"TEXTURE_PG_USER" env-default:"texture"`
	Password string `env:"TEXTURE_PG_PASSWORD" env-default:"pwd"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"texture-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

type EconomyConfig struct {
	PublicRate          int64 `env:"SCORE_PER_STORAGE" env-default:"1"`
	PrivateRate         int64 `env:"PRIVATE_SCORE_PER_STORAGE" env-default:"10"`
	ClosetItemCost      int64 `env:"SCORE_PER_CLOSET_ITEM" env-default:"10"`
	UploadAward         int64 `env:"SCORE_AWARD_PER_TEXTURE" env-default:"0"`
	TakeBackAward       bool  `env:"TAKE_BACK_SCORES" env-default:"true"`
	ReturnScoreOnRemove bool  `env:"RETURN_SCORE" env-default:"true"`
	InitialScore        int64 `env:"INITIAL_SCORE" env-default:"1000"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

func NewDbPool(ctx context.Context, dbConfig DbConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbConfig.toDatabaseUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func main() {
	// Load configuration
	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := NewDbPool(ctx, config.DB)
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	s3Backend, err := s3storage.New(s3storage.Config{
		Endpoint:               config.S3.Endpoint,
		AccessKeyID:            config.S3.AccessKeyID,
		SecretAccessKey:        config.S3.SecretAccessKey,
		Bucket:                 config.S3.BucketName,
		Region:                 config.S3.Region,
		UsePathStyle:           config.S3.UsePathStyle,
		CreateBucketIfNotExist: config.S3.CreateBucket,
	})
	if err != nil {
		slog.Error("Failed to initialize S3 backend", "err", err)
		os.Exit(1)
	}

	pricing := texturelib.Pricing{
		PublicRate:           config.Economy.PublicRate,
		PrivateRate:          config.Economy.PrivateRate,
		ClosetItemCost:       config.Economy.ClosetItemCost,
		UploadAward:          config.Economy.UploadAward,
		TakeBackAward:        config.Economy.TakeBackAward,
		ReturnScoreOnRemoval: config.Economy.ReturnScoreOnRemove,
	}

	svc, err := texturelib.New(
		texturelib.WithRepository(pgrepo.NewWithPool(dbPool)),
		texturelib.WithBlobStore(s3Backend),
		texturelib.WithPricing(pricing),
		texturelib.WithInitialScore(config.Economy.InitialScore),
		texturelib.WithEventSink(texturelib.NewLoggingEventSink(slog.Default())),
	)
	if err != nil {
		slog.Error("Failed to create service", "err", err)
		os.Exit(1)
	}

	server := api.NewServer(svc, config.JWTSecret)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: server.Routes(),
	}

	go func() {
		slog.Info("Texture library server starting", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}
}
