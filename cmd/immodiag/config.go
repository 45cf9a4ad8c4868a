package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/immodiag"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config is the process configuration. It is read from an optional YAML
// file and then overridden by the environment.
type Config struct {
	// Provider selects the analyst. When empty, the first provider with
	// an API key is used, in the order openai, gemini, anthropic.
	Provider string `yaml:"provider" validate:"omitempty,oneof=openai gemini anthropic"`
	DB       string `yaml:"db"`
	Addr     string `yaml:"addr"`

	OpenAI    ProviderConfig `yaml:"openai"`
	Gemini    ProviderConfig `yaml:"gemini"`
	Anthropic ProviderConfig `yaml:"anthropic"`

	Fetch FetchConfig `yaml:"fetch"`
}

// ProviderConfig holds the credentials and model of one analyst provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// FetchConfig tunes listing retrieval.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`

	// RatePerSecond bounds requests per marketplace. Zero disables
	// limiting for marketplaces missing from MarketplaceRates.
	RatePerSecond float64 `yaml:"rate_per_second" validate:"gte=0"`

	// MarketplaceRates overrides RatePerSecond for single marketplaces,
	// keyed by domain (for example "leboncoin.fr").
	MarketplaceRates map[string]float64 `yaml:"marketplace_rates" validate:"dive,keys,required,endkeys,gte=0"`
}

// LoadConfig reads path, applies the environment through getenv and
// validates the result. An empty path yields a configuration built from
// the environment alone.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, immodiag.Errorf(immodiag.EINVALID, "parse config %s: %v", path, err)
		}
	}
	cfg.applyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.Gemini.APIKey, "GEMINI_API_KEY")
	set(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	set(&c.Provider, "IMMODIAG_PROVIDER")
	set(&c.DB, "IMMODIAG_DB")
}

var validate = validator.New()

// Validate returns an error if the configuration is inconsistent.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return immodiag.Errorf(immodiag.EINVALID, "config: %s", formatValidationError(verrs[0]))
		}
		return err
	}
	if c.Provider != "" && c.providerConfig(c.Provider).APIKey == "" {
		return immodiag.Errorf(immodiag.EINVALID, "config: provider %s has no API key", c.Provider)
	}
	return nil
}

// ResolveProvider returns the provider to use, or "" if none has a key.
func (c *Config) ResolveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	for _, name := range []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic} {
		if c.providerConfig(name).APIKey != "" {
			return name
		}
	}
	return ""
}

func (c *Config) providerConfig(name string) ProviderConfig {
	switch name {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGemini:
		return c.Gemini
	case ProviderAnthropic:
		return c.Anthropic
	}
	return ProviderConfig{}
}

func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
