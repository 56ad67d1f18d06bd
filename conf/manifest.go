package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/ritlepage/backend/fill"
	"github.com/ritlepage/backend/submission"
)

// Manifest describes the template asset and the limits it imposes.
type Manifest struct {
	Template struct {
		Path           string `toml:"path"`
		SubmitterSlots int    `toml:"submitter_slots"`
		MatchScope     string `toml:"match_scope"`
	} `toml:"template"`
	Validation struct {
		RequireConsecutiveYears bool `toml:"require_consecutive_years"`
	} `toml:"validation"`

	scope fill.Scope
}

// LoadManifest reads a TOML manifest. The template path is resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if !filepath.IsAbs(m.Template.Path) {
		m.Template.Path = filepath.Join(filepath.Dir(path), m.Template.Path)
	}
	return m, nil
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Template.Path == "" {
		return nil, fmt.Errorf("template.path is required")
	}
	if m.Template.SubmitterSlots == 0 {
		m.Template.SubmitterSlots = submission.DefaultMaxSubmitters
	}
	if m.Template.SubmitterSlots < 1 {
		return nil, fmt.Errorf("template.submitter_slots must be positive, got %d", m.Template.SubmitterSlots)
	}
	scope, err := fill.ParseScope(m.Template.MatchScope)
	if err != nil {
		return nil, err
	}
	m.scope = scope
	return &m, nil
}

func (m *Manifest) Scope() fill.Scope {
	return m.scope
}

// Limits are the validation bounds the template implies.
func (m *Manifest) Limits() submission.Limits {
	return submission.Limits{
		MaxSubmitters:           m.Template.SubmitterSlots,
		RequireConsecutiveYears: m.Validation.RequireConsecutiveYears,
	}
}
