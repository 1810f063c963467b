package config

import (
	"fmt"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithMemoryStorage configures in-memory blob storage
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.Storage = StorageConfig{Type: "memory"}
		return nil
	}
}

// WithFilesystemStorage configures filesystem blob storage
func WithFilesystemStorage(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("base directory cannot be empty")
		}
		c.Storage = StorageConfig{Type: "fs", BaseDir: baseDir}
		return nil
	}
}

// WithS3Storage configures S3 blob storage
func WithS3Storage(bucket, region string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("bucket cannot be empty")
		}
		c.Storage.Type = "s3"
		c.Storage.Bucket = bucket
		c.Storage.Region = region
		return nil
	}
}

// WithS3Credentials sets static credentials for the S3 backend
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.Storage.AccessKeyID = accessKeyID
		c.Storage.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint, for MinIO and other
// S3-compatible stores
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		c.Storage.Endpoint = endpoint
		c.Storage.UsePathStyle = usePathStyle
		return nil
	}
}

// WithPricing sets the economy pricing table
func WithPricing(pricing texturelib.Pricing) Option {
	return func(c *ServerConfig) error {
		c.Pricing = pricing
		return nil
	}
}

// WithInitialScore sets the score granted to newly registered users
func WithInitialScore(score int64) Option {
	return func(c *ServerConfig) error {
		if score < 0 {
			return fmt.Errorf("initial score cannot be negative")
		}
		c.InitialScore = score
		return nil
	}
}

// WithAutoDeleteInvalid enables dropping texture records whose blob has
// gone missing
func WithAutoDeleteInvalid(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoDeleteInvalid = enabled
		return nil
	}
}

// WithJWTSecret sets the secret used to verify request tokens
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.JWTSecret = secret
		return nil
	}
}

// WithEventLogging enables or disables event logging
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
