package corpus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/spdxmatch/corpus"
)

func TestMemory(t *testing.T) {
	memory := corpus.NewMemory("3.24",
		&corpus.License{ID: "MIT", Text: "MIT text"},
		&corpus.License{ID: "Apache-2.0", Text: "Apache text"},
		&corpus.License{ID: "BSD-2-Clause", Text: "BSD text", Deprecated: true},
	)
	assert.Equal(t, []string{"Apache-2.0", "BSD-2-Clause", "MIT"}, memory.IDs())
	assert.Equal(t, "3.24", memory.Version())

	license, ok := memory.License("mit")
	require.True(t, ok)
	assert.Equal(t, "MIT", license.ID)

	memory.Put(&corpus.License{ID: "mit", Text: "replaced"})
	assert.Equal(t, []string{"Apache-2.0", "BSD-2-Clause", "mit"}, memory.IDs())
	license, _ = memory.License("MIT")
	assert.Equal(t, "replaced", license.Text)

	_, ok = memory.License("GPL-2.0")
	assert.False(t, ok)
}

func TestLicense_Fingerprint(t *testing.T) {
	license := &corpus.License{ID: "MIT", Text: "text", Template: "template"}
	same := &corpus.License{ID: "MIT", Text: "text", Template: "template"}
	assert.Equal(t, license.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, license.Fingerprint(), (&corpus.License{ID: "MIT", Text: "textt", Template: "emplate"}).Fingerprint())
	assert.NotEqual(t, license.Fingerprint(), (&corpus.License{ID: "MIT", Text: "text"}).Fingerprint())
}

func TestCanonicalVersion(t *testing.T) {
	tests := []struct {
		version string
		expect  string
		valid   bool
	}{
		{version: "3.24", expect: "v3.24.0", valid: true},
		{version: "v3.24.0", expect: "v3.24.0", valid: true},
		{version: " 3 ", expect: "v3.0.0", valid: true},
		{version: "", expect: "", valid: false},
		{version: "latest", expect: "latest", valid: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, corpus.CanonicalVersion(tt.version), tt.version)
		assert.Equal(t, tt.valid, corpus.IsValidVersion(tt.version), tt.version)
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("MIT.txt", "MIT License text")
	write("MIT.template.txt", "MIT <<var;name=\"x\";match=\".*\">>")
	write("0BSD.txt", "Zero clause")
	write("manifest.yaml", `version: "3.24"
licenses:
  - id: MIT
    name: MIT License
    text: MIT.txt
    template: MIT.template.txt
  - id: 0BSD
    text: 0BSD.txt
    deprecated: true
`)
	loaded, err := corpus.NewLoader().Load(context.Background(), filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3.24", loaded.Version())
	assert.Equal(t, []string{"0BSD", "MIT"}, loaded.IDs())

	mit, ok := loaded.License("MIT")
	require.True(t, ok)
	assert.Equal(t, "MIT License", mit.Name)
	assert.Equal(t, "MIT License text", mit.Text)
	assert.Equal(t, "MIT <<var;name=\"x\";match=\".*\">>", mit.Template)

	zeroBSD, _ := loaded.License("0bsd")
	assert.True(t, zeroBSD.Deprecated)
	assert.Empty(t, zeroBSD.Template)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		description string
		manifest    string
		invalid     bool
	}{
		{description: "duplicate id", manifest: "licenses:\n  - id: MIT\n    text: a.txt\n  - id: mit\n    text: a.txt\n", invalid: true},
		{description: "missing id", manifest: "licenses:\n  - text: a.txt\n", invalid: true},
		{description: "bad version", manifest: "version: latest\nlicenses: []\n", invalid: true},
		{description: "missing text file", manifest: "licenses:\n  - id: MIT\n    text: missing.txt\n"},
		{description: "malformed yaml", manifest: "licenses: [", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			dir := t.TempDir()
			manifest := filepath.Join(dir, "manifest.yaml")
			require.NoError(t, os.WriteFile(manifest, []byte(tt.manifest), 0o644))
			_, err := corpus.NewLoader().Load(context.Background(), manifest)
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, corpus.ErrInvalidManifest))
		})
	}
}
