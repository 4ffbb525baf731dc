// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/faculty-digest/internal/schemas"
	"github.com/jonathan/faculty-digest/internal/site"
)

// EnvPrefix prefixes every environment variable read by LoadEnv, e.g.
// FACULTY_OUTPUT. DATABASE_URL, GEMINI_API_KEY and OPENAI_API_KEY are also
// read without the prefix.
const EnvPrefix = "FACULTY"

// Renderer values
const (
	RendererBrowser = "browser"
	RendererStatic  = "static"
)

// Duration is a time.Duration that reads "15s"-style strings from JSON and
// environment variables.
type Duration time.Duration

// UnmarshalText parses a Go duration string. Empty text means zero.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the CLI configuration. Values come from a JSON file, the
// environment and CLI flags; all fields are optional.
type Config struct {
	// Site
	DirectoryURL string `json:"directory_url,omitempty" split_words:"true" validate:"omitempty,url"`
	BaseOrigin   string `json:"base_origin,omitempty" split_words:"true" validate:"omitempty,url"`

	// Output
	Output      string `json:"output,omitempty" split_words:"true"`
	DatabaseURL string `json:"database_url,omitempty" envconfig:"DATABASE_URL"` // enables the PostgreSQL mirror
	MaxProfiles int    `json:"max_profiles,omitempty" split_words:"true" validate:"gte=0"`

	// Navigation
	Renderer    string   `json:"renderer,omitempty" split_words:"true" validate:"omitempty,oneof=browser static"`
	Headed      bool     `json:"headed,omitempty" split_words:"true"`
	ChromePath  string   `json:"chrome_path,omitempty" split_words:"true"`
	UserAgent   string   `json:"user_agent,omitempty" split_words:"true"`
	ListTimeout Duration `json:"list_timeout,omitempty" split_words:"true" validate:"gte=0"`
	NameTimeout Duration `json:"name_timeout,omitempty" split_words:"true" validate:"gte=0"`
	BioTimeout  Duration `json:"bio_timeout,omitempty" split_words:"true" validate:"gte=0"`
	SettleDelay Duration `json:"settle_delay,omitempty" split_words:"true" validate:"gte=0"`

	// Politeness
	RespectRobots   bool     `json:"respect_robots,omitempty" split_words:"true"`
	RequestInterval Duration `json:"request_interval,omitempty" split_words:"true" validate:"gte=0"`

	// Summaries
	Provider      string   `json:"provider,omitempty" split_words:"true" validate:"omitempty,oneof=gemini openai"`
	Model         string   `json:"model,omitempty" split_words:"true"`
	Temperature   *float32 `json:"temperature,omitempty" split_words:"true" validate:"omitempty,gte=0,lte=2"`
	SummaryPolicy string   `json:"summary_policy,omitempty" split_words:"true" validate:"omitempty,oneof=abort skip keep"`
	APIKey        string   `json:"api_key,omitempty" split_words:"true"`
	Endpoint      string   `json:"endpoint,omitempty" split_words:"true" validate:"omitempty,url"` // OpenAI-compatible base URL
	GeminiAPIKey  string   `json:"-" envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey  string   `json:"-" envconfig:"OPENAI_API_KEY"`

	Verbose bool `json:"verbose,omitempty" split_words:"true"`
}

// Float32 returns a pointer to v, for optional numeric settings.
func Float32(v float32) *float32 {
	return &v
}

// Defaults returns the configuration for the bit.vt.edu directory.
func Defaults() Config {
	return Config{
		DirectoryURL:  site.DirectoryURL,
		BaseOrigin:    site.BaseOrigin,
		Output:        site.DefaultOutputFile,
		Renderer:      RendererBrowser,
		UserAgent:     site.DefaultUserAgent,
		ListTimeout:   Duration(site.ListTimeout),
		NameTimeout:   Duration(site.NameTimeout),
		BioTimeout:    Duration(site.BioTimeout),
		SettleDelay:   Duration(site.SettleDelay),
		Provider:      "gemini",
		Temperature:   Float32(site.SummaryTemperature),
		SummaryPolicy: "skip",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed, or does not match
// the config schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	// Catches misspelled keys, which Unmarshal silently ignores
	if err := schemas.Validate(schemas.Config, data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadEnv reads FACULTY_* environment variables.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// Load layers the environment over the optional JSON file at path and fills
// the rest from Defaults. The result is validated.
func Load(path string) (*Config, error) {
	file := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	merged := env.MergeWithDefaults(file.MergeWithDefaults(Defaults()))
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed %s", fe.Field(), describeTag(fe)))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
	}
	return fe.Tag()
}

// ResolveAPIKey returns APIKey, or the provider-specific key when APIKey is empty.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer env over file over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.DirectoryURL, defaults.DirectoryURL)
	mergeString(&result.BaseOrigin, defaults.BaseOrigin)
	mergeString(&result.Output, defaults.Output)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.Renderer, defaults.Renderer)
	mergeString(&result.ChromePath, defaults.ChromePath)
	mergeString(&result.UserAgent, defaults.UserAgent)
	mergeString(&result.Provider, defaults.Provider)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.SummaryPolicy, defaults.SummaryPolicy)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.Endpoint, defaults.Endpoint)
	mergeString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	mergeString(&result.OpenAIAPIKey, defaults.OpenAIAPIKey)

	// Numeric fields: use default if zero
	if result.MaxProfiles == 0 {
		result.MaxProfiles = defaults.MaxProfiles
	}
	if result.Temperature == nil && defaults.Temperature != nil {
		result.Temperature = Float32(*defaults.Temperature)
	}
	mergeDuration(&result.ListTimeout, defaults.ListTimeout)
	mergeDuration(&result.NameTimeout, defaults.NameTimeout)
	mergeDuration(&result.BioTimeout, defaults.BioTimeout)
	mergeDuration(&result.SettleDelay, defaults.SettleDelay)
	mergeDuration(&result.RequestInterval, defaults.RequestInterval)

	// Bool fields cannot distinguish unset from false, so true in either layer wins
	result.Headed = result.Headed || defaults.Headed
	result.RespectRobots = result.RespectRobots || defaults.RespectRobots
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func mergeString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func mergeDuration(dst *Duration, fallback Duration) {
	if *dst == 0 {
		*dst = fallback
	}
}
