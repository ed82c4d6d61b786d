package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"parsverse/pkg/policy"
	"parsverse/pkg/utils"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	ImageNone = "none"

	GroqBaseURL = "https://api.groq.com/openai/v1"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "parsverse.toml"

// Config holds every process-wide setting. It is built once at startup and
// passed by value afterwards.
type Config struct {
	Provider          string      `toml:"provider"`
	Mode              policy.Mode `toml:"translit_mode"`
	StructuredOutputs bool        `toml:"structured_outputs"`

	OpenAI ProviderConfig `toml:"openai"`
	Groq   ProviderConfig `toml:"groq"`
	Gemini ProviderConfig `toml:"gemini"`

	Image  ImageConfig  `toml:"image"`
	Server ServerConfig `toml:"server"`
}

type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type ImageConfig struct {
	Provider string        `toml:"provider"`
	Model    string        `toml:"model"`
	Size     string        `toml:"size"`
	Style    string        `toml:"style"`
	Interval time.Duration `toml:"interval"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() Config {
	return Config{
		Provider: ProviderGroq,
		Mode:     policy.Modern,
		OpenAI:   ProviderConfig{Model: "gpt-4o-mini"},
		Groq:     ProviderConfig{Model: "llama-3.1-8b-instant", BaseURL: GroqBaseURL},
		Gemini:   ProviderConfig{Model: "gemini-2.5-flash"},
		Image: ImageConfig{
			Provider: ImageNone,
			Size:     "1024x1024",
			Style:    "Persian miniature",
			Interval: 10 * time.Second,
			CacheTTL: time.Hour,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML config file, applies environment overrides and
// validates the result. A missing file means built-in defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("reading %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	cfg = cfg.WithEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// WithEnv returns a copy overridden by any non-empty variable getenv reports.
func (c Config) WithEnv(getenv func(string) string) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "PROVIDER")
	if v := strings.TrimSpace(getenv("TRANSLIT_MODE")); v != "" {
		c.Mode = policy.Mode(v)
	}
	set(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.OpenAI.Model, "OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&c.Groq.APIKey, "GROQ_API_KEY")
	set(&c.Groq.Model, "GROQ_MODEL")
	set(&c.Gemini.APIKey, "GEMINI_API_KEY")
	set(&c.Gemini.Model, "GEMINI_MODEL")
	set(&c.Image.Provider, "IMAGE_PROVIDER")
	set(&c.Image.Model, "IMAGE_MODEL")
	set(&c.Image.Size, "IMAGE_SIZE")
	set(&c.Image.Style, "IMAGE_STYLE")
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv("STRUCTURED_OUTPUTS"))); err == nil {
		c.StructuredOutputs = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}

	c.Provider = strings.ToLower(c.Provider)
	c.Image.Provider = strings.ToLower(c.Image.Provider)
	return c
}

// Validate rejects unknown providers and transliteration modes. It
// canonicalizes the mode spelling in place.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider %q (use %q, %q or %q)", c.Provider, ProviderGroq, ProviderOpenAI, ProviderGemini)
	}
	mode, err := policy.ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	switch c.Image.Provider {
	case "", ImageNone, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported image provider %q", c.Image.Provider)
	}
	if c.Image.Interval < 0 || c.Image.CacheTTL < 0 {
		return errors.New("image interval and cache_ttl must not be negative")
	}
	return nil
}

// Active returns the settings of the selected text provider.
func (c Config) Active() ProviderConfig {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGemini:
		return c.Gemini
	default:
		return c.Groq
	}
}

// KeyPreview is the first characters of the active provider's key, for
// diagnostics.
func (c Config) KeyPreview() string {
	return utils.KeyPreview(c.Active().APIKey)
}
