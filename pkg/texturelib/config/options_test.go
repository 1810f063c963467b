package config

import (
	"testing"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got: %s", cfg.Environment)
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
			if cfg.DatabaseURL != tt.url {
				t.Errorf("expected database URL %s, got: %s", tt.url, cfg.DatabaseURL)
			}
		})
	}
}

func TestWithFilesystemStorage(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage("./data"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Storage.Type != "fs" {
		t.Errorf("expected fs storage, got: %s", cfg.Storage.Type)
	}
	if cfg.Storage.BaseDir != "./data" {
		t.Errorf("expected base dir ./data, got: %s", cfg.Storage.BaseDir)
	}
}

func TestWithFilesystemStorageEmptyDir(t *testing.T) {
	_, err := Load(WithFilesystemStorage(""))
	if err == nil {
		t.Error("expected error for empty base directory, got nil")
	}
}

func TestWithS3Storage(t *testing.T) {
	cfg, err := Load(
		WithS3Storage("textures", "us-west-2"),
		WithS3Credentials("key-id", "secret"),
		WithS3Endpoint("http://localhost:9000", true),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Storage.Type != "s3" {
		t.Errorf("expected s3 storage, got: %s", cfg.Storage.Type)
	}
	if cfg.Storage.Bucket != "textures" {
		t.Errorf("expected bucket textures, got: %s", cfg.Storage.Bucket)
	}
	if cfg.Storage.Region != "us-west-2" {
		t.Errorf("expected region us-west-2, got: %s", cfg.Storage.Region)
	}
	if cfg.Storage.AccessKeyID != "key-id" || cfg.Storage.SecretAccessKey != "secret" {
		t.Error("expected static credentials to be set")
	}
	if cfg.Storage.Endpoint != "http://localhost:9000" || !cfg.Storage.UsePathStyle {
		t.Error("expected custom endpoint with path-style addressing")
	}
}

func TestWithS3StorageMissingBucket(t *testing.T) {
	_, err := Load(WithS3Storage("", "us-east-1"))
	if err == nil {
		t.Error("expected error for missing bucket, got nil")
	}
}

func TestWithPricing(t *testing.T) {
	pricing := texturelib.Pricing{
		PublicRate:     2,
		PrivateRate:    8,
		ClosetItemCost: 3,
	}
	cfg, err := Load(WithPricing(pricing))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Pricing != pricing {
		t.Errorf("expected pricing %+v, got: %+v", pricing, cfg.Pricing)
	}
}

func TestWithInitialScore(t *testing.T) {
	cfg, err := Load(WithInitialScore(500))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.InitialScore != 500 {
		t.Errorf("expected initial score 500, got: %d", cfg.InitialScore)
	}

	if _, err := Load(WithInitialScore(-1)); err == nil {
		t.Error("expected error for negative initial score, got nil")
	}
}

func TestWithJWTSecretAndFlags(t *testing.T) {
	cfg, err := Load(
		WithJWTSecret("s3cret"),
		WithAutoDeleteInvalid(true),
		WithEventLogging(false),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("expected jwt secret to be set, got: %s", cfg.JWTSecret)
	}
	if !cfg.AutoDeleteInvalid {
		t.Error("expected auto delete invalid to be enabled")
	}
	if cfg.EnableEventLogging {
		t.Error("expected event logging to be disabled")
	}
}
