// Package corpus defines the read-only collection of standard licenses
// the matcher compares candidate text against.
package corpus

import (
	"sort"
	"strings"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// License is a standard license: canonical text and optional template source
type License struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Text       string `yaml:"-"`
	Template   string `yaml:"-"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
}

// Fingerprint hashes license content, it changes whenever text or template changes
func (l *License) Fingerprint() uint64 {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0
	}
	_, _ = hash.Write([]byte(l.Text))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(l.Template))
	return hash.Sum64()
}

// Corpus exposes standard licenses by id
type Corpus interface {
	// Version returns the license list version
	Version() string
	// IDs returns all license ids in stable order
	IDs() []string
	// License returns a license by id, lookup is case insensitive
	License(id string) (*License, bool)
}

// Memory is an in-memory Corpus
type Memory struct {
	version  string
	ids      []string
	licenses map[string]*License
}

// Version returns license list version
func (m *Memory) Version() string {
	return m.version
}

// IDs returns sorted license ids
func (m *Memory) IDs() []string {
	return append([]string(nil), m.ids...)
}

// License returns license for id
func (m *Memory) License(id string) (*License, bool) {
	license, ok := m.licenses[strings.ToLower(id)]
	return license, ok
}

// Put adds or replaces a license, it must not run concurrently with lookups
func (m *Memory) Put(license *License) {
	key := strings.ToLower(license.ID)
	if prev, ok := m.licenses[key]; ok {
		for i, id := range m.ids {
			if id == prev.ID {
				m.ids = append(m.ids[:i], m.ids[i+1:]...)
				break
			}
		}
	}
	m.licenses[key] = license
	index := sort.SearchStrings(m.ids, license.ID)
	m.ids = append(m.ids, "")
	copy(m.ids[index+1:], m.ids[index:])
	m.ids[index] = license.ID
}

// NewMemory creates an in-memory corpus
func NewMemory(version string, licenses ...*License) *Memory {
	result := &Memory{version: version, licenses: map[string]*License{}}
	for _, license := range licenses {
		result.Put(license)
	}
	return result
}
