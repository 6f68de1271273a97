package types

import "time"

// DefaultMaxDimension bounds the larger image side when resizing is enabled
// without an explicit value.
const DefaultMaxDimension = 512

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "llm-arxiv/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for catalog search.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results to request (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for paper fetching and the local store.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PapersDir is the base directory for the local paper store
	// (contains raw/, metadata/, index/).
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`
}

// ResizeOption selects whether and how far extracted images are downscaled.
// The zero value disables resizing.
type ResizeOption struct {
	// Enabled turns downscaling on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxDimension bounds the larger of width/height after resizing.
	// When zero, DefaultMaxDimension applies.
	MaxDimension int `json:"max_dimension" yaml:"max_dimension"`
}

// Bound returns the effective maximum dimension for an enabled option.
func (r ResizeOption) Bound() int {
	if r.MaxDimension > 0 {
		return r.MaxDimension
	}
	return DefaultMaxDimension
}
