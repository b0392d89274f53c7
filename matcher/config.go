package matcher

import "runtime"

// Config controls whole corpus scans
type Config struct {
	// Workers bounds concurrent license comparisons, 0 means runtime.NumCPU()
	Workers int `yaml:"workers"`
	// SkipDeprecated excludes deprecated licenses from corpus scans
	SkipDeprecated bool `yaml:"skipDeprecated"`
}

// DefaultConfig returns default config
func DefaultConfig() *Config {
	return &Config{Workers: runtime.NumCPU()}
}

func (c *Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
