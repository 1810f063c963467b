package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/skinloft/texture-library/pkg/texturelib"
	"github.com/skinloft/texture-library/pkg/texturelib/admin"
	memoryrepo "github.com/skinloft/texture-library/pkg/texturelib/repo/memory"
	pgrepo "github.com/skinloft/texture-library/pkg/texturelib/repo/postgres"
)

const usage = `Texture Library Admin CLI

A lightweight admin tool for library maintenance that only requires database access.

USAGE:
  admin <command> [options]

COMMANDS:
  list      List textures with optional filtering
  count     Count textures with optional filtering
  stats     Get aggregated library statistics

ENVIRONMENT VARIABLES:
  DATABASE_URL      PostgreSQL connection string (required for postgres)
  DATABASE_TYPE     Database type: postgres or memory (default: memory)

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # List all textures, private ones included
  admin list

  # List textures from a specific uploader
  admin list --uploader-id=550e8400-e29b-41d4-a716-446655440000

  # List with pagination
  admin list --page=2 --page-size=50

  # List capes only
  admin list --kind=cape

  # Count all textures
  admin count

  # Count by uploader
  admin count --uploader-id=550e8400-e29b-41d4-a716-446655440000

  # Get statistics
  admin stats

  # Output as JSON
  admin list --json
  admin stats --json

OPTIONS (for list/count/stats):
  --uploader-id=<uuid>   Filter by uploader ID
  --kind=<kind>          Filter by kind (steve, alex, cape)
  --keyword=<text>       Filter by name substring
  --sort=<key>           Sort by "time" or "likes" (list only)
  --page=<n>             Page number (list only, default: 1)
  --page-size=<n>        Page size (list only, default: 100)
  --json                 Output as JSON
`

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "help" || command == "--help" || command == "-h" {
		fmt.Printf("%s\n", usage)
		os.Exit(0)
	}

	adminSvc, err := createAdminService()
	if err != nil {
		log.Fatalf("Failed to create admin service: %v", err)
	}

	ctx := context.Background()

	filters, useJSON := parseFilters(os.Args[2:])

	switch command {
	case "list":
		handleList(ctx, adminSvc, filters, useJSON)
	case "count":
		handleCount(ctx, adminSvc, filters, useJSON)
	case "stats":
		handleStats(ctx, adminSvc, filters, useJSON)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}
}

func createAdminService() (admin.AdminService, error) {
	dbType := getEnv("DATABASE_TYPE", "memory")

	switch dbType {
	case "postgres":
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for postgres")
		}

		pool, err := pgxpool.New(context.Background(), dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return admin.New(pgrepo.NewWithPool(pool)), nil

	case "memory":
		return admin.New(memoryrepo.New()), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s (use 'postgres' or 'memory')", dbType)
	}
}

func parseFilters(args []string) (admin.TextureFilters, bool) {
	filters := admin.TextureFilters{}
	useJSON := false

	defaultPage := 1
	defaultPageSize := 100
	filters.Page = &defaultPage
	filters.PageSize = &defaultPageSize

	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
			continue
		}

		key, value := parseFlag(arg)

		switch key {
		case "uploader-id":
			if id, err := uuid.Parse(value); err == nil {
				filters.Uploader = &id
			}
		case "kind":
			kind := texturelib.TextureKind(value)
			if kind.Valid() {
				filters.Kind = &kind
			}
		case "keyword":
			filters.Keyword = value
		case "sort":
			filters.SortBy = &value
		case "page":
			if n, err := strconv.Atoi(value); err == nil {
				filters.Page = &n
			}
		case "page-size":
			if n, err := strconv.Atoi(value); err == nil {
				filters.PageSize = &n
			}
		}
	}

	return filters, useJSON
}

func parseFlag(arg string) (string, string) {
	if len(arg) > 2 && arg[:2] == "--" {
		arg = arg[2:]
		for i, c := range arg {
			if c == '=' {
				return arg[:i], arg[i+1:]
			}
		}
		return arg, "true"
	}
	return "", ""
}

func handleList(ctx context.Context, adminSvc admin.AdminService, filters admin.TextureFilters, useJSON bool) {
	resp, err := adminSvc.ListAllTextures(ctx, admin.ListTexturesRequest{
		Filters: filters,
	})
	if err != nil {
		log.Fatalf("Failed to list textures: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tKIND\tPUBLIC\tUNITS\tLIKES\tUPLOADER\tUPLOADED\n")

	for _, texture := range resp.Textures {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%s\t%s\n",
			texture.ID.String()[:8]+"...",
			truncate(texture.Name, 20),
			texture.Kind,
			texture.Public,
			texture.SizeUnits,
			texture.Likes,
			texture.UploaderID.String()[:8]+"...",
			texture.UploadedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d", resp.TotalCount)
	if resp.HasMore {
		fmt.Printf(" (has more, use --page=%d to continue)", resp.Page+1)
	}
	fmt.Println()
}

func handleCount(ctx context.Context, adminSvc admin.AdminService, filters admin.TextureFilters, useJSON bool) {
	resp, err := adminSvc.CountTextures(ctx, admin.CountRequest{
		Filters: filters,
	})
	if err != nil {
		log.Fatalf("Failed to count textures: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Total count: %d\n", resp.Count)
}

func handleStats(ctx context.Context, adminSvc admin.AdminService, filters admin.TextureFilters, useJSON bool) {
	resp, err := adminSvc.GetStatistics(ctx, admin.StatisticsRequest{
		Filters: filters,
		Options: admin.DefaultStatisticsOptions(),
	})
	if err != nil {
		log.Fatalf("Failed to get statistics: %v", err)
	}

	if useJSON {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return
	}

	stats := resp.Statistics

	fmt.Println("=== Texture Library Statistics ===")
	fmt.Printf("\nTotal Count: %d\n", stats.TotalCount)
	fmt.Printf("Total Storage Units: %d\n", stats.TotalStorageUnits)
	fmt.Printf("Total Likes: %d\n", stats.TotalLikes)

	if len(stats.ByKind) > 0 {
		fmt.Println("\nBy Kind:")
		for kind, count := range stats.ByKind {
			fmt.Printf("  %-8s: %d\n", kind, count)
		}
	}

	if len(stats.ByVisibility) > 0 {
		fmt.Println("\nBy Visibility:")
		for visibility, count := range stats.ByVisibility {
			fmt.Printf("  %-8s: %d\n", visibility, count)
		}
	}

	if stats.OldestUpload != nil && stats.NewestUpload != nil {
		fmt.Println("\nTime Range:")
		fmt.Printf("  Oldest: %s\n", stats.OldestUpload.Format(time.RFC3339))
		fmt.Printf("  Newest: %s\n", stats.NewestUpload.Format(time.RFC3339))
	}

	fmt.Printf("\nComputed at: %s\n", resp.ComputedAt.Format(time.RFC3339))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
