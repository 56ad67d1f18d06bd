package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ritlepage/backend/conf"
	"github.com/ritlepage/backend/faculty"
	"github.com/ritlepage/backend/http"
	"github.com/ritlepage/backend/logger"
	"github.com/ritlepage/backend/s3bucket"
	"github.com/ritlepage/backend/titlepage"
	"github.com/ritlepage/backend/wordml"
)

// staleAfter is how old a leftover document must be before startup removes it.
const staleAfter = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := conf.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *conf.Config) error {
	manifest, err := conf.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}

	opts := titlepage.ServiceOpts{
		TemplatePath: manifest.Template.Path,
		OutputDir:    cfg.OutputDir,
		Scope:        manifest.Scope(),
		Limits:       manifest.Limits(),
	}
	if cfg.ArchiveEnabled() {
		bucket, err := s3bucket.NewS3Bucket(ctx, cfg.ArchiveRegion, cfg.ArchiveBucket, wordml.MimeType)
		if err != nil {
			return err
		}
		opts.Archiver = bucket
	}

	titlePageSrvc, err := titlepage.NewService(opts)
	if err != nil {
		return err
	}
	if removed, err := titlePageSrvc.SweepStale(staleAfter); err != nil {
		slog.Warn("failed to sweep output directory", "error", err)
	} else if removed > 0 {
		slog.Info("removed stale documents", "count", removed)
	}

	var directory *faculty.Directory
	if cfg.FacultyFile != "" {
		directory, err = faculty.LoadFile(cfg.FacultyFile)
		if err != nil {
			return err
		}
		slog.Info("loaded faculty directory", "members", directory.Len())
	}

	slog.Info("starting server",
		"address", cfg.ListenAddr,
		"template", manifest.Template.Path,
		"submitter_slots", manifest.Limits().MaxSubmitters,
		"match_scope", manifest.Scope().String(),
		"archive", cfg.ArchiveEnabled(),
		"api_key_required", cfg.APIKey != "",
	)
	return http.NewHttpServer(cfg, titlePageSrvc, directory).Start(ctx, cfg.ListenAddr)
}
