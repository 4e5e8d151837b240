// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "outreach-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the video search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the video platform API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the number of raw results requested per page (max 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages caps the number of search page requests per keyword
	// (default 10). A safety valve against unbounded API cost, not a
	// correctness requirement: result sets may be smaller than requested.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// PublishedAfterDays excludes videos older than now minus N days
	// (default 30).
	PublishedAfterDays int `json:"published_after_days" yaml:"published_after_days"`

	// Language selects the script filter applied to title+description
	// (default "ko").
	Language string `json:"language" yaml:"language"`

	// Region is the platform region code sent with search requests.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// PageDelay is the base delay between successive page requests for one
	// keyword. Advisory pacing against API throttling.
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// PageDelayJitter is the maximum random duration added to PageDelay.
	PageDelayJitter time.Duration `json:"page_delay_jitter" yaml:"page_delay_jitter"`
}

// EnrichConfig holds settings for the detail enrichment stage.
type EnrichConfig struct {
	// ChunkSize is the batch lookup size for statistics and channel info
	// requests. Clamped to the platform maximum of 50.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MinViewCount drops enriched items below this view count. Zero
	// disables the filter.
	MinViewCount int64 `json:"min_view_count" yaml:"min_view_count"`

	// RequireContact drops enriched items with no resolved contact address.
	RequireContact bool `json:"require_contact" yaml:"require_contact"`
}

// StoreConfig selects and configures the persistent store backend.
type StoreConfig struct {
	// Driver selects the backend: "sqlite" (default) or "postgres".
	Driver string `json:"driver" yaml:"driver"`

	// Path is the SQLite database file path (sqlite driver).
	Path string `json:"path" yaml:"path"`

	// DSN is the Postgres connection string (postgres driver).
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// MaxConns caps pooled Postgres connections (default 2).
	MaxConns int `json:"max_conns" yaml:"max_conns"`
}

// GenerationConfig holds settings for the draft generation stage.
type GenerationConfig struct {
	// Model is the generative model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// AppVideoURL is the product demo link every outreach draft must carry.
	AppVideoURL string `json:"app_video_url" yaml:"app_video_url"`

	// MinRelevance is the relevance score below which no drafts are
	// generated for an item (default 0.5).
	MinRelevance float64 `json:"min_relevance" yaml:"min_relevance"`
}

// HuntConfig holds settings for the hunt pipeline.
type HuntConfig struct {
	// Keywords is the default keyword list when none is given per run.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// MaxResultsPerKeyword is the target candidate count per keyword
	// (default 5).
	MaxResultsPerKeyword int `json:"max_results_per_keyword" yaml:"max_results_per_keyword"`

	// GenerateDrafts controls whether drafts are generated for new items.
	GenerateDrafts bool `json:"generate_drafts" yaml:"generate_drafts"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Enrich     EnrichConfig     `json:"enrich" yaml:"enrich"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Hunt       HuntConfig       `json:"hunt" yaml:"hunt"`
}
