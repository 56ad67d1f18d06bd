// Package titlepage turns a submission into a finished title page
// document on disk.
package titlepage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ritlepage/backend/fill"
	"github.com/ritlepage/backend/logger"
	"github.com/ritlepage/backend/srvcerror"
	"github.com/ritlepage/backend/submission"
	"github.com/wailsapp/mimetype"
)

// Archiver keeps a copy of every generated document.
type Archiver interface {
	Archive(ctx context.Context, key string, content []byte) error
}

type ServiceOpts struct {
	TemplatePath string
	OutputDir    string
	Scope        fill.Scope
	Limits       submission.Limits
	Archiver     Archiver // optional
}

type Service struct {
	templatePath string
	outputDir    string
	scope        fill.Scope
	limits       submission.Limits
	archiver     Archiver
}

// Generated is a document written to the output directory. The caller owns
// the file and must pass Path to Cleanup once done with it.
type Generated struct {
	ID     uuid.UUID
	Path   string
	Size   int
	Report fill.Report
}

func NewService(opts ServiceOpts) (*Service, error) {
	if opts.TemplatePath == "" {
		return nil, fmt.Errorf("template path is required")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Limits.MaxSubmitters <= 0 {
		opts.Limits.MaxSubmitters = submission.DefaultMaxSubmitters
	}

	data, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if err := checkTemplate(data); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Service{
		templatePath: opts.TemplatePath,
		outputDir:    opts.OutputDir,
		scope:        opts.Scope,
		limits:       opts.Limits,
		archiver:     opts.Archiver,
	}, nil
}

func (s *Service) Limits() submission.Limits {
	return s.limits
}

// checkTemplate accepts a docx or any zip container; the package reader
// reports anything else wrong with it.
func checkTemplate(data []byte) error {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(docxMimeType) || m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("template is not a docx package")
}

// Generate validates sub, renders it into the template and writes the
// result under a name no other request can pick.
func (s *Service) Generate(ctx context.Context, sub *submission.Submission) (*Generated, error) {
	log := logger.FromContext(ctx)

	if err := sub.Validate(s.limits); err != nil {
		return nil, err
	}

	tmpl, err := os.ReadFile(s.templatePath)
	if err != nil {
		return nil, srvcerror.ErrInternalSE().SetDebug(fmt.Errorf("failed to read template: %w", err))
	}
	if err := checkTemplate(tmpl); err != nil {
		return nil, srvcerror.ErrInternalSE().SetDebug(err)
	}

	content, report, err := Render(tmpl, sub, s.limits.MaxSubmitters, s.scope)
	if err != nil {
		return nil, srvcerror.ErrInternalSE().SetDebug(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, srvcerror.ErrInternalSE().SetDebug(fmt.Errorf("failed to generate UUID: %w", err))
	}
	path := filepath.Join(s.outputDir, id.String()+".docx")
	if err := writeExclusive(path, content); err != nil {
		return nil, srvcerror.ErrInternalSE().SetDebug(err)
	}

	if s.archiver != nil {
		key := fmt.Sprintf("titlepages/%s.docx", id)
		if err := s.archiver.Archive(ctx, key, content); err != nil {
			log.Warn("failed to archive title page", "document_id", id, "key", key, "error", err)
		}
	}

	log.Info("generated title page",
		"document_id", id,
		"submitters", len(sub.Submitters),
		"substitutions", report.Substitutions,
		"paragraphs_rewritten", report.ParagraphsRewritten,
	)

	return &Generated{ID: id, Path: path, Size: len(content), Report: report}, nil
}

func writeExclusive(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Cleanup removes a generated document. A file that is already gone is
// not an error.
func (s *Service) Cleanup(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// SweepStale removes documents left in the output directory for longer
// than olderThan, such as those of a process that died mid-response.
func (s *Service) SweepStale(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list output directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".docx") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Cleanup(filepath.Join(s.outputDir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
