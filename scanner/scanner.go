// Package scanner finds standard licenses and SPDX license tags in source trees.
package scanner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/spdxmatch/expression"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const identifierTag = "SPDX-License-Identifier:"

// Matcher finds standard licenses contained in text
type Matcher interface {
	MatchingStandardLicenseIDsWithinText(ctx context.Context, text string) ([]string, error)
}

// Scanner reports licenses found in files
type Scanner struct {
	matcher Matcher
	fs      afs.Service
	filter  Filter
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a scanner
func New(matcher Matcher, options ...Option) *Scanner {
	result := &Scanner{
		matcher: matcher,
		fs:      afs.New(),
		filter:  DefaultFilter,
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("github.com/viant/spdxmatch/scanner"),
	}
	for _, option := range options {
		option(result)
	}
	return result
}

// ScanSource scans comments of a source file, or the whole content of a text file
func (s *Scanner) ScanSource(ctx context.Context, location string, src []byte) (*Report, error) {
	report := &Report{Path: location, Language: LanguageText, LicenseFile: IsLicenseFile(location)}
	blocks := []*Block{{Text: string(src), Line: 1}}
	if lang := languageOf(location); lang != nil {
		report.Language = lang.name
		var err error
		if blocks, err = extractComments(ctx, lang, src); err != nil {
			return nil, fmt.Errorf("failed to scan %v: %w", location, err)
		}
	}
	for _, block := range blocks {
		ids, err := s.matcher.MatchingStandardLicenseIDsWithinText(ctx, block.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %v: %w", location, err)
		}
		if len(ids) > 0 {
			report.Findings = append(report.Findings, &Finding{Line: block.Line, Licenses: ids})
		}
		report.Declared = append(report.Declared, declarations(block)...)
	}
	s.logger.Debug("scanned source",
		zap.String("path", location),
		zap.String("language", report.Language),
		zap.Int("blocks", len(blocks)),
		zap.Strings("licenses", report.Licenses()))
	return report, nil
}

// ScanURL downloads and scans a single file
func (s *Scanner) ScanURL(ctx context.Context, URL string) (*Report, error) {
	src, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return s.ScanSource(ctx, URL, src)
}

// ScanDir walks root and scans every file accepted by the filter, reports are sorted by path
func (s *Scanner) ScanDir(ctx context.Context, root string) ([]*Report, error) {
	ctx, span := s.tracer.Start(ctx, "scanner.scanDir", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	var locations []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return s.filter(info), nil
		}
		if s.filter(info) {
			locations = append(locations, url.Join(baseURL, parent, info.Name()))
		}
		return true, nil
	}
	if err := s.fs.Walk(ctx, root, visitor); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to walk %v: %w", root, err)
	}
	sort.Strings(locations)
	span.SetAttributes(attribute.Int("files", len(locations)))

	reports := make([]*Report, 0, len(locations))
	for _, location := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := s.ScanURL(ctx, location)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		reports = append(reports, report)
	}
	s.logger.Info("scanned directory", zap.String("root", root), zap.Int("files", len(reports)))
	return reports, nil
}

// declarations returns SPDX-License-Identifier tags of a block, malformed expressions are reported, not failed
func declarations(block *Block) []*Declaration {
	var result []*Declaration
	for i, line := range strings.Split(block.Text, "\n") {
		index := strings.Index(line, identifierTag)
		if index == -1 {
			continue
		}
		value := strings.TrimSpace(line[index+len(identifierTag):])
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(value, "*/"), "-->"))
		declaration := &Declaration{Line: block.Line + i, Expression: value}
		parsed, err := expression.Parse(value)
		if err != nil {
			declaration.Error = err.Error()
		} else {
			declaration.Parsed = parsed
		}
		result = append(result, declaration)
	}
	return result
}
