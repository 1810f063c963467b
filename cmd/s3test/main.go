package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	s3storage "github.com/skinloft/texture-library/pkg/texturelib/storage/s3"
)

// A small connectivity checker for the S3 blob storage backend. Useful for
// verifying bucket access and MinIO setups before pointing a server at them.
func main() {
	region := flag.String("region", "us-east-1", "AWS region")
	bucket := flag.String("bucket", "", "S3 bucket name")
	accessKey := flag.String("access-key", "", "AWS access key ID")
	secretKey := flag.String("secret-key", "", "AWS secret access key")
	endpoint := flag.String("endpoint", "", "Custom S3 endpoint (for MinIO, etc.)")
	usePathStyle := flag.Bool("use-path-style", false, "Use path-style addressing")
	createBucket := flag.Bool("create-bucket", false, "Create bucket if it doesn't exist")

	command := flag.String("command", "help", "Command to execute: upload, download, exists, delete, help")
	objectKey := flag.String("key", "", "Object key for operations")
	filePath := flag.String("file", "", "File path for upload/download")

	// MinIO shortcut
	useMinio := flag.Bool("use-minio", false, "Use MinIO defaults (sets endpoint, path-style, etc.)")
	minioEndpoint := flag.String("minio-endpoint", "http://localhost:9000", "MinIO server endpoint")

	flag.Parse()

	if *useMinio {
		*endpoint = *minioEndpoint
		*usePathStyle = true
		*createBucket = true
		if *accessKey == "" {
			*accessKey = "minioadmin"
		}
		if *secretKey == "" {
			*secretKey = "minioadmin"
		}
	}

	if *accessKey == "" {
		*accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if *secretKey == "" {
		*secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	if *command == "help" || *command == "" {
		flag.Usage()
		return
	}
	if *bucket == "" {
		log.Fatal("Bucket name is required")
	}

	config := s3storage.Config{
		Region:                 *region,
		Bucket:                 *bucket,
		AccessKeyID:            *accessKey,
		SecretAccessKey:        *secretKey,
		Endpoint:               *endpoint,
		UsePathStyle:           *usePathStyle,
		CreateBucketIfNotExist: *createBucket,
	}

	fmt.Println("Initializing S3 backend with the following configuration:")
	fmt.Printf("  Region: %s\n", config.Region)
	fmt.Printf("  Bucket: %s\n", config.Bucket)
	fmt.Printf("  Endpoint: %s\n", config.Endpoint)
	fmt.Printf("  Use Path Style: %v\n", config.UsePathStyle)
	fmt.Printf("  Create Bucket If Not Exist: %v\n", config.CreateBucketIfNotExist)
	fmt.Println()

	backend, err := s3storage.New(config)
	if err != nil {
		log.Fatalf("Failed to initialize S3 backend: %v", err)
	}

	ctx := context.Background()

	switch strings.ToLower(*command) {
	case "upload":
		if *objectKey == "" || *filePath == "" {
			log.Fatal("Object key and file path are required for upload")
		}
		file, err := os.Open(*filePath)
		if err != nil {
			log.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		if err := backend.Upload(ctx, *objectKey, file); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		fmt.Printf("Uploaded %s to %s\n", *filePath, *objectKey)

	case "download":
		if *objectKey == "" || *filePath == "" {
			log.Fatal("Object key and file path are required for download")
		}
		reader, err := backend.Download(ctx, *objectKey)
		if err != nil {
			log.Fatalf("Download failed: %v", err)
		}
		defer reader.Close()

		out, err := os.Create(*filePath)
		if err != nil {
			log.Fatalf("Failed to create file: %v", err)
		}
		defer out.Close()

		n, err := io.Copy(out, reader)
		if err != nil {
			log.Fatalf("Failed to write file: %v", err)
		}
		fmt.Printf("Downloaded %s to %s (%d bytes)\n", *objectKey, *filePath, n)

	case "exists":
		if *objectKey == "" {
			log.Fatal("Object key is required for exists")
		}
		exists, err := backend.Exists(ctx, *objectKey)
		if err != nil {
			log.Fatalf("Exists check failed: %v", err)
		}
		fmt.Printf("Object %s exists: %v\n", *objectKey, exists)

	case "delete":
		if *objectKey == "" {
			log.Fatal("Object key is required for delete")
		}
		if err := backend.Delete(ctx, *objectKey); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("Deleted %s\n", *objectKey)

	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}
