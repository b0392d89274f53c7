package scanner_test

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/spdxmatch/corpus"
	"github.com/viant/spdxmatch/expression"
	"github.com/viant/spdxmatch/matcher"
	"github.com/viant/spdxmatch/scanner"
	"gopkg.in/yaml.v3"
)

const shortText = "Licensed under the Sample Short license."

type expectDeclaration struct {
	Line       int    `yaml:"line"`
	Expression string `yaml:"expression"`
	Invalid    bool   `yaml:"invalid"`
}

type sourceCase struct {
	Description string               `yaml:"description"`
	Path        string               `yaml:"path"`
	Language    string               `yaml:"language"`
	LicenseFile bool                 `yaml:"licenseFile"`
	Source      string               `yaml:"source"`
	Findings    []*scanner.Finding   `yaml:"findings"`
	Declared    []*expectDeclaration `yaml:"declared"`
}

func newScanner() *scanner.Scanner {
	licenses := corpus.NewMemory("3.24", &corpus.License{ID: "Sample-Short", Text: shortText})
	return scanner.New(matcher.New(licenses, nil))
}

func TestScanner_ScanSource(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "sources.yaml"))
	require.NoError(t, err)
	var cases []*sourceCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)

	s := newScanner()
	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			report, err := s.ScanSource(context.Background(), tc.Path, []byte(tc.Source))
			require.NoError(t, err)
			assert.Equal(t, tc.Path, report.Path)
			assert.Equal(t, tc.Language, report.Language)
			assert.Equal(t, tc.LicenseFile, report.LicenseFile)
			assert.Equal(t, tc.Findings, report.Findings)

			require.Len(t, report.Declared, len(tc.Declared))
			for i, expect := range tc.Declared {
				actual := report.Declared[i]
				assert.Equal(t, expect.Line, actual.Line)
				assert.Equal(t, expect.Expression, actual.Expression)
				if expect.Invalid {
					assert.NotEmpty(t, actual.Error)
					assert.Nil(t, actual.Parsed)
					continue
				}
				assert.Empty(t, actual.Error)
				parsed, err := expression.Parse(expect.Expression)
				require.NoError(t, err)
				equal, err := expression.Equal(parsed, actual.Parsed, nil)
				require.NoError(t, err)
				assert.True(t, equal)
			}
		})
	}
}

func TestScanner_ScanDir(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"main.go":         "// " + shortText + "\npackage main\n",
		"LICENSE":         shortText + "\n",
		"docs/usage.md":   "# Usage\n",
		"vendor/dep.go":   "// " + shortText + "\npackage dep\n",
		".git/config":     "[core]\n",
		"assets/logo.png": "\x89PNG",
	}
	for name, content := range files {
		location := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	}

	reports, err := newScanner().ScanDir(context.Background(), root)
	require.NoError(t, err)

	var names []string
	byName := map[string]*scanner.Report{}
	for _, report := range reports {
		names = append(names, path.Base(report.Path))
		byName[path.Base(report.Path)] = report
	}
	assert.ElementsMatch(t, []string{"main.go", "LICENSE", "usage.md"}, names)
	assert.True(t, sort.SliceIsSorted(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path }))

	assert.Equal(t, []string{"Sample-Short"}, byName["main.go"].Licenses())
	assert.True(t, byName["LICENSE"].LicenseFile)
	assert.Equal(t, []string{"Sample-Short"}, byName["LICENSE"].Licenses())
	assert.True(t, byName["usage.md"].Empty())
}

func TestIsLicenseFile(t *testing.T) {
	tests := []struct {
		location string
		expect   bool
	}{
		{location: "LICENSE", expect: true},
		{location: "repo/LICENSE.md", expect: true},
		{location: "COPYING", expect: true},
		{location: "licence.txt", expect: true},
		{location: "LICENSE-APACHE", expect: true},
		{location: "README.md", expect: true},
		{location: "main.go", expect: false},
		{location: "license.go", expect: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, scanner.IsLicenseFile(tt.location), tt.location)
	}
}
