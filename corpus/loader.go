package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidManifest reports a malformed corpus manifest
	ErrInvalidManifest = errors.New("invalid corpus manifest")
)

// Manifest describes a corpus stored as text files next to a YAML manifest
type Manifest struct {
	Version  string  `yaml:"version"`
	Licenses []Entry `yaml:"licenses"`
}

// Entry is a manifest license entry, Text and Template are locations relative to the manifest
type Entry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Text       string `yaml:"text"`
	Template   string `yaml:"template,omitempty"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
}

// Loader reads a corpus with afs, so any afs supported storage works
type Loader struct {
	fs     afs.Service
	logger *zap.Logger
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithLoaderLogger sets loader logger
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFS sets the afs service
func WithFS(fs afs.Service) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// NewLoader creates a loader
func NewLoader(options ...LoaderOption) *Loader {
	result := &Loader{fs: afs.New(), logger: zap.NewNop()}
	for _, option := range options {
		option(result)
	}
	return result
}

// Load reads manifest and all referenced license files
func (l *Loader) Load(ctx context.Context, manifestURL string) (*Memory, error) {
	data, err := l.fs.DownloadWithURL(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download manifest %v: %w", manifestURL, err)
	}
	manifest := &Manifest{}
	if err = yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrInvalidManifest, manifestURL, err)
	}
	if err = manifest.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", manifestURL, err)
	}
	baseURL, _ := url.Split(manifestURL, file.Scheme)
	result := NewMemory(manifest.Version)
	for _, entry := range manifest.Licenses {
		license := &License{ID: entry.ID, Name: entry.Name, Deprecated: entry.Deprecated}
		if license.Text, err = l.download(ctx, baseURL, entry.Text); err != nil {
			return nil, err
		}
		if entry.Template != "" {
			if license.Template, err = l.download(ctx, baseURL, entry.Template); err != nil {
				return nil, err
			}
		}
		result.Put(license)
	}
	l.logger.Info("loaded license corpus",
		zap.String("url", manifestURL),
		zap.String("version", manifest.Version),
		zap.Int("licenses", len(manifest.Licenses)))
	return result, nil
}

func (l *Loader) download(ctx context.Context, baseURL, location string) (string, error) {
	URL := location
	if !strings.Contains(location, "://") && !strings.HasPrefix(location, "/") {
		URL = url.Join(baseURL, location)
	}
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("failed to download license file %v: %w", URL, err)
	}
	return string(data), nil
}

// Validate checks manifest consistency
func (m *Manifest) Validate() error {
	if m.Version != "" && !IsValidVersion(m.Version) {
		return fmt.Errorf("%w: version %q is not a semantic version", ErrInvalidManifest, m.Version)
	}
	seen := map[string]bool{}
	for i, entry := range m.Licenses {
		if entry.ID == "" {
			return fmt.Errorf("%w: license #%d has no id", ErrInvalidManifest, i)
		}
		key := strings.ToLower(entry.ID)
		if seen[key] {
			return fmt.Errorf("%w: duplicate license id %v", ErrInvalidManifest, entry.ID)
		}
		seen[key] = true
		if entry.Text == "" {
			return fmt.Errorf("%w: license %v has no text location", ErrInvalidManifest, entry.ID)
		}
	}
	return nil
}
