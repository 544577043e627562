package questiongen

import "time"

// Config controls an LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPriorPrompts caps how many prior prompts go into the prompt.
	MaxPriorPrompts int

	// MaxAttempts is how many times a question that fails a retryable
	// validator is regenerated in total.
	MaxAttempts int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&RequestMatchValidator{},
		},
		MaxTokens:       1024,
		Temperature:     0.7,
		MaxPriorPrompts: 10,
		MaxAttempts:     2,
	}
}

// CacheConfig bounds a Cache.
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// DefaultCacheConfig keeps up to 256 questions for an hour.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 256, TTL: time.Hour}
}
