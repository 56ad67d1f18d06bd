package conf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ritlepage/backend/logger"
)

const (
	DefaultListenAddr    = ":8080"
	DefaultAllowedOrigin = "https://ritlepage.pages.dev"
	DefaultManifestPath  = "assets/template.toml"
)

// Config is built once at process start and handed to whatever needs it.
type Config struct {
	ListenAddr    string
	APIKey        string // empty disables the x-api-key check
	AllowedOrigin string
	ManifestPath  string
	OutputDir     string
	FacultyFile   string // empty disables the faculty directory
	ArchiveBucket string // empty disables the S3 archive
	ArchiveRegion string
	LogLevel      slog.Level
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ListenAddr:    get("LISTEN_ADDR", DefaultListenAddr),
		APIKey:        getenv("API_KEY"),
		AllowedOrigin: get("ALLOWED_ORIGIN", DefaultAllowedOrigin),
		ManifestPath:  get("TEMPLATE_MANIFEST", DefaultManifestPath),
		OutputDir:     get("OUTPUT_DIR", filepath.Join(os.TempDir(), "titlepage")),
		FacultyFile:   get("FACULTY_FILE", ""),
		ArchiveBucket: get("ARCHIVE_S3_BUCKET", ""),
		ArchiveRegion: get("ARCHIVE_S3_REGION", ""),
		LogLevel:      logger.ParseLevel(get("LOG_LEVEL", "info")),
	}

	if cfg.ArchiveBucket != "" && cfg.ArchiveRegion == "" {
		return nil, fmt.Errorf("ARCHIVE_S3_REGION must be set when ARCHIVE_S3_BUCKET is")
	}
	return cfg, nil
}

// ArchiveEnabled reports whether generated documents are copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}
