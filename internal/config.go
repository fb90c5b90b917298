package internal

import (
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/storage"
	"github.com/starford/homepage/internal/view"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Data      DataConfig        `yaml:"data"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Page      PageConfig        `yaml:"page"`
	Map       MapConfig         `yaml:"map"`
	Auth      AuthConfig        `yaml:"auth"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Data, &c.SQLite, &c.Page, &c.Map, &c.Auth, &c.RateLimit} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig locates the CSV data directory and the file behind each dataset.
type DataConfig struct {
	Path        string `yaml:"path"`
	Books       string `yaml:"books"`
	Inspiration string `yaml:"inspiration"`
	Coordinates string `yaml:"coordinates"`
	Watch       bool   `yaml:"watch"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Books, validation.Required, validation.By(flatCSV)),
		validation.Field(&c.Inspiration, validation.By(flatCSV)),
		validation.Field(&c.Coordinates, validation.By(flatCSV)),
	)
}

// flatCSV accepts a .csv file name directly inside the data directory, the
// only files the index sync and watcher see.
func flatCSV(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if filepath.Base(s) != s || !storage.IsDataFile(s) {
		return fmt.Errorf("must be a .csv file name in the data directory")
	}
	return nil
}

// Files returns the dataset file names.
func (c *DataConfig) Files() library.Files {
	return library.Files{Books: c.Books, Inspiration: c.Inspiration, Coordinates: c.Coordinates}
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PageConfig selects the page variant: which tabs it offers and their text.
type PageConfig struct {
	Title      string   `yaml:"title"`
	Tabs       []string `yaml:"tabs"`
	DefaultTab string   `yaml:"default_tab"`
	About      string   `yaml:"about"`
	Thoughts   string   `yaml:"thoughts"`
}

// Validate validates the page configuration.
func (c *PageConfig) Validate() error {
	known := make([]any, len(view.AllTabs))
	for i, t := range view.AllTabs {
		known[i] = string(t)
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Tabs, validation.Required, validation.Each(validation.In(known...))),
		validation.Field(&c.DefaultTab, validation.Required),
	); err != nil {
		return err
	}
	if !slices.Contains(c.Tabs, c.DefaultTab) {
		return fmt.Errorf("page: default_tab %q is not one of tabs", c.DefaultTab)
	}
	return nil
}

// ViewTabs converts the configured tab names.
func (c *PageConfig) ViewTabs() []view.Tab {
	out := make([]view.Tab, len(c.Tabs))
	for i, t := range c.Tabs {
		out[i] = view.Tab(t)
	}
	return out
}

// MapConfig configures the decorative map.
type MapConfig struct {
	GeoURL string `yaml:"geo_url"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Validate validates the map configuration.
func (c *MapConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.GeoURL, validation.By(absoluteURL)),
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
	)
}

func absoluteURL(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

// AuthConfig holds API authentication configuration.
//
// Mode is "disabled" (the default, no authentication) or "token", which
// requires a Bearer token on /api routes; Token must then be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// RateLimitConfig throttles /api per client. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RPS, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.Min(0)),
	)
}

// Enabled reports whether API requests are throttled.
func (c *RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Path:        "./data",
			Books:       "books.csv",
			Inspiration: "inspiration.csv",
			Coordinates: "coordinates.csv",
			Watch:       true,
		},
		SQLite: SQLiteConfig{
			Path: "./homepage.db",
		},
		Page: PageConfig{
			Title:      "Home",
			Tabs:       []string{"about", "books", "inspiration", "thoughts"},
			DefaultTab: "about",
		},
		Map: MapConfig{
			Width:  960,
			Height: 480,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}
