// Package config builds texturelib services from declarative server
// configuration.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skinloft/texture-library/pkg/texturelib"
	"github.com/skinloft/texture-library/pkg/texturelib/repo/memory"
	repopg "github.com/skinloft/texture-library/pkg/texturelib/repo/postgres"
	fsstorage "github.com/skinloft/texture-library/pkg/texturelib/storage/fs"
	memorystorage "github.com/skinloft/texture-library/pkg/texturelib/storage/memory"
	s3storage "github.com/skinloft/texture-library/pkg/texturelib/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top
// of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		Storage: StorageConfig{
			Type: "memory",
		},
		Pricing:            texturelib.DefaultPricing(),
		InitialScore:       1000,
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the texture library
// service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	Storage StorageConfig

	// Economy configuration
	Pricing           texturelib.Pricing
	InitialScore      int64
	AutoDeleteInvalid bool

	// Auth configuration
	JWTSecret string

	// Server options
	EnableEventLogging bool
}

// StorageConfig represents configuration for the blob storage backend
type StorageConfig struct {
	Type string // "memory", "fs", "s3"

	// fs options
	BaseDir string

	// s3 options
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	CreateBucket    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base directory is required for fs storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.Pricing.PublicRate < 0 || c.Pricing.PrivateRate < 0 ||
		c.Pricing.ClosetItemCost < 0 || c.Pricing.UploadAward < 0 {
		return errors.New("pricing rates must be non-negative")
	}

	return nil
}

// BuildRepository creates a Repository instance from the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (texturelib.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return memory.New(), nil
	}
}

// BuildBlobStore creates a BlobStore instance from the configuration
func (c *ServerConfig) BuildBlobStore() (texturelib.BlobStore, error) {
	switch c.Storage.Type {
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.Storage.BaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.Storage.Region,
			Bucket:                 c.Storage.Bucket,
			AccessKeyID:            c.Storage.AccessKeyID,
			SecretAccessKey:        c.Storage.SecretAccessKey,
			Endpoint:               c.Storage.Endpoint,
			UsePathStyle:           c.Storage.UsePathStyle,
			CreateBucketIfNotExist: c.Storage.CreateBucket,
		})
	default:
		return memorystorage.New(), nil
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (texturelib.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}
	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, err
	}

	options := []texturelib.Option{
		texturelib.WithRepository(repo),
		texturelib.WithBlobStore(store),
		texturelib.WithPricing(c.Pricing),
		texturelib.WithInitialScore(c.InitialScore),
		texturelib.WithAutoDeleteInvalid(c.AutoDeleteInvalid),
	}
	if c.EnableEventLogging {
		options = append(options, texturelib.WithEventSink(texturelib.NewLoggingEventSink(nil)))
	}

	return texturelib.New(options...)
}
