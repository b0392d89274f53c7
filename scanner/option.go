package scanner

import (
	"os"
	"strings"

	"github.com/viant/afs"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option customizes a Scanner
type Option func(*Scanner)

// Filter decides whether a directory is descended into or a file is scanned
type Filter func(info os.FileInfo) bool

// WithFS sets storage service
func WithFS(fs afs.Service) Option {
	return func(s *Scanner) {
		s.fs = fs
	}
}

// WithFilter sets directory walk filter
func WithFilter(filter Filter) Option {
	return func(s *Scanner) {
		s.filter = filter
	}
}

// WithLogger sets scanner logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets tracer used for directory scan spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// DefaultFilter skips dependency, VCS and hidden directories and unsupported files
func DefaultFilter(info os.FileInfo) bool {
	name := info.Name()
	if info.IsDir() {
		switch name {
		case "vendor", "node_modules", ".git", "target", "build":
			return false
		}
		return !strings.HasPrefix(name, ".") || name == "." || name == ".."
	}
	return IsSupported(name)
}
