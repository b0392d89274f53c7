package matcher

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a compiled matcher: license id, license list version and content fingerprint
type Key struct {
	ID          string
	Version     string
	Fingerprint uint64
}

func (k Key) String() string {
	return k.ID + "@" + k.Version + "#" + strconv.FormatUint(k.Fingerprint, 16)
}

// Cache holds compiled matchers for the process lifetime.
// Concurrent first use of a key compiles once, the first stored matcher wins for all later lookups.
type Cache struct {
	entries sync.Map
	group   singleflight.Group
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{}
}

// Get returns a cached matcher
func (c *Cache) Get(key Key) (*Compiled, bool) {
	value, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return value.(*Compiled), true
}

// GetOrCompute returns the cached matcher for key or stores the one returned by compute.
// hit is false when this call triggered compilation or waited for it.
func (c *Cache) GetOrCompute(key Key, compute func() (*Compiled, error)) (compiled *Compiled, hit bool, err error) {
	if compiled, ok := c.Get(key); ok {
		return compiled, true, nil
	}
	value, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if compiled, ok := c.Get(key); ok {
			return compiled, nil
		}
		compiled, err := compute()
		if err != nil {
			return nil, err
		}
		actual, _ := c.entries.LoadOrStore(key, compiled)
		return actual, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.(*Compiled), false, nil
}

// Len returns number of cached matchers
func (c *Cache) Len() int {
	count := 0
	c.entries.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}
