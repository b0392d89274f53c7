// Package matcher answers whether text is, or contains, a standard license of a corpus.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/viant/spdxmatch/corpus"
	"github.com/viant/spdxmatch/normalizer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	scanExact  = "exact"
	scanWithin = "within"
)

// ErrLicenseNotFound reports a license id missing from the corpus
var ErrLicenseNotFound = errors.New("license not found")

// Service matches text against corpus licenses using cached compiled matchers
type Service struct {
	corpus  corpus.Corpus
	cache   *Cache
	config  *Config
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New creates a service, a nil cache is replaced by a private one
func New(licenses corpus.Corpus, cache *Cache, options ...Option) *Service {
	if cache == nil {
		cache = NewCache()
	}
	result := &Service{
		corpus: licenses,
		cache:  cache,
		config: DefaultConfig(),
		logger: zap.NewNop(),
		tracer: otel.Tracer("github.com/viant/spdxmatch/matcher"),
	}
	for _, option := range options {
		option(result)
	}
	return result
}

// Matcher returns the compiled matcher for license id
func (s *Service) Matcher(id string) (*Compiled, error) {
	license, ok := s.corpus.License(id)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLicenseNotFound, id)
	}
	return s.compiled(license)
}

func (s *Service) compiled(license *corpus.License) (*Compiled, error) {
	key := Key{ID: license.ID, Version: corpus.CanonicalVersion(s.corpus.Version()), Fingerprint: license.Fingerprint()}
	compiled, hit, err := s.cache.GetOrCompute(key, func() (*Compiled, error) {
		started := time.Now()
		compiled, err := Compile(license)
		s.metrics.IncrementCompilation(err)
		if err != nil {
			s.logger.Warn("failed to compile license matcher", zap.String("license", license.ID), zap.Error(err))
			return nil, err
		}
		s.logger.Debug("compiled license matcher",
			zap.String("license", license.ID),
			zap.Int("required", len(compiled.required)),
			zap.Duration("elapsed", time.Since(started)))
		return compiled, nil
	})
	s.metrics.IncrementLookup(hit)
	return compiled, err
}

// IsTextStandardLicense compares the whole text with license id
func (s *Service) IsTextStandardLicense(id, text string) (*MatchResult, error) {
	compiled, err := s.Matcher(id)
	if err != nil {
		return nil, err
	}
	return compiled.Match(normalizer.Normalize(text)), nil
}

// IsStandardLicenseWithinText returns true when text contains license id
func (s *Service) IsStandardLicenseWithinText(text, id string) (bool, error) {
	compiled, err := s.Matcher(id)
	if err != nil {
		return false, err
	}
	return compiled.Within(normalizer.Normalize(text)), nil
}

// MatchingStandardLicenseIDs returns sorted ids of all licenses the text matches exactly
func (s *Service) MatchingStandardLicenseIDs(ctx context.Context, text string) ([]string, error) {
	return s.scan(ctx, scanExact, text, func(compiled *Compiled, run normalizer.Run) bool {
		return compiled.Match(run).Matched()
	})
}

// MatchingStandardLicenseIDsWithinText returns sorted ids of all licenses the text contains
func (s *Service) MatchingStandardLicenseIDsWithinText(ctx context.Context, text string) ([]string, error) {
	return s.scan(ctx, scanWithin, text, func(compiled *Compiled, run normalizer.Run) bool {
		return compiled.Within(run)
	})
}

func (s *Service) scan(ctx context.Context, mode, text string, matches func(*Compiled, normalizer.Run) bool) (ids []string, err error) {
	started := time.Now()
	candidates := s.candidates()
	ctx, span := s.tracer.Start(ctx, "matcher.scan", trace.WithAttributes(
		attribute.String("mode", mode),
		attribute.Int("licenses", len(candidates))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.ObserveScan(mode, time.Since(started))
	}()

	run := normalizer.Normalize(text)
	var mux sync.Mutex
	skipped := 0
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.workers())
	for _, license := range candidates {
		license := license
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			compiled, err := s.compiled(license)
			if err != nil {
				s.logger.Debug("skipping license", zap.String("mode", mode), zap.String("license", license.ID), zap.Error(err))
				mux.Lock()
				skipped++
				mux.Unlock()
				return nil
			}
			if !matches(compiled, run) {
				return nil
			}
			mux.Lock()
			ids = append(ids, license.ID)
			mux.Unlock()
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	span.SetAttributes(attribute.Int("matches", len(ids)), attribute.Int("skipped", skipped))
	return ids, nil
}

func (s *Service) candidates() []*corpus.License {
	var result []*corpus.License
	for _, id := range s.corpus.IDs() {
		license, ok := s.corpus.License(id)
		if !ok || (s.config.SkipDeprecated && license.Deprecated) {
			continue
		}
		result = append(result, license)
	}
	return result
}
