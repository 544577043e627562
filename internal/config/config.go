// Package config loads settings from an optional aiteacher.yaml, a .env
// file and AITEACHER_* environment variables, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/llm"
	"github.com/subodh556/AI-Teacher-sub000/internal/logging"
	"github.com/subodh556/AI-Teacher-sub000/internal/questiongen"
	"github.com/subodh556/AI-Teacher-sub000/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. AITEACHER_SERVER_ADDR.
const EnvPrefix = "AITEACHER"

// Config is the full application configuration.
type Config struct {
	Engine EngineConfig            `mapstructure:"engine"`
	Store  StoreConfig             `mapstructure:"store"`
	Log    logging.Config          `mapstructure:"log"`
	Server ServerConfig            `mapstructure:"server"`
	LLM    llm.Config              `mapstructure:"llm"`
	Cache  questiongen.CacheConfig `mapstructure:"cache"`
}

// EngineConfig holds defaults for adaptive selection. An assessment's own
// difficulty range takes precedence.
type EngineConfig struct {
	DifficultyMin int `mapstructure:"difficulty_min" validate:"min=1,max=5"`
	DifficultyMax int `mapstructure:"difficulty_max" validate:"min=1,max=5,gtefield=DifficultyMin"`

	// Policy breaks ties between equally eligible questions: stable or
	// random.
	Policy string `mapstructure:"policy" validate:"oneof=stable random"`

	// Seed makes the random policy reproducible. Zero seeds from the
	// runtime.
	Seed uint64 `mapstructure:"seed"`
}

// Range is the configured default difficulty range.
func (e EngineConfig) Range() difficulty.Range {
	return difficulty.Range{Min: e.DifficultyMin, Max: e.DifficultyMax}
}

// Picker builds the tie-break picker for the configured policy.
func (e EngineConfig) Picker() (*difficulty.Picker, error) {
	policy, err := difficulty.ParsePolicy(e.Policy)
	if err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if e.Seed != 0 {
		rng = rand.New(rand.NewPCG(e.Seed, e.Seed))
	}
	return difficulty.NewPicker(policy, rng), nil
}

// StoreConfig locates the database.
type StoreConfig struct {
	// Path of the SQLite file. Empty resolves to the XDG data directory.
	Path string `mapstructure:"path"`
}

// DSN returns the database path, resolving the default location.
func (s StoreConfig) DSN() (string, error) {
	if s.Path != "" {
		return s.Path, store.EnsureDir(s.Path)
	}
	return store.DefaultDBPath()
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`

	// Mode is gin's mode: debug, release or test.
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`

	// RateLimit is requests per second allowed per client IP; Burst is the
	// bucket size. A zero rate disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	Burst     int     `mapstructure:"burst" validate:"min=0"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			DifficultyMin: difficulty.DefaultRange().Min,
			DifficultyMax: difficulty.DefaultRange().Max,
			Policy:        string(difficulty.PolicyStable),
		},
		Log: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			RateLimit:       10,
			Burst:           20,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM:   llm.DefaultConfig(),
		Cache: questiongen.DefaultCacheConfig(),
	}
}

// Load reads configuration. path names an explicit config file; when
// empty, aiteacher.yaml is looked up in the working directory and the XDG
// config directory, and its absence is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aiteacher")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Discover()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the LLM provider settings.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "aiteacher"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aiteacher"), nil
}

// setDefaults registers every key so environment variables can override
// keys absent from the config file.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("engine.difficulty_min", d.Engine.DifficultyMin)
	v.SetDefault("engine.difficulty_max", d.Engine.DifficultyMax)
	v.SetDefault("engine.policy", d.Engine.Policy)
	v.SetDefault("engine.seed", d.Engine.Seed)

	v.SetDefault("store.path", d.Store.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.quiet", d.Log.Quiet)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	for name, pc := range map[string]llm.ProviderConfig{
		"anthropic":  d.LLM.Anthropic,
		"openai":     d.LLM.OpenAI,
		"openrouter": d.LLM.OpenRouter,
		"gemini":     d.LLM.Gemini,
	} {
		v.SetDefault("llm."+name+".api_key", pc.APIKey)
		v.SetDefault("llm."+name+".model", pc.Model)
		v.SetDefault("llm."+name+".base_url", pc.BaseURL)
	}
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)

	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.ttl", d.Cache.TTL)
}
