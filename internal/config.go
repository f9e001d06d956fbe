package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/uploads"
)

// Store drivers.
const (
	StoreDriverJSON   = "json"
	StoreDriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Uploads UploadsConfig     `yaml:"uploads"`
	Site    SiteConfig        `yaml:"site"`
	Auth    AuthConfig        `yaml:"auth"`
	Events  EventsConfig      `yaml:"events"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Store, &c.Uploads, &c.Site, &c.Auth, &c.Events} {
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

// StoreConfig selects where the content document lives.
//
// Driver "json" keeps it in the file at Path, the layout the front end was
// built against. Driver "sqlite" keeps it in a single-row table at SQLitePath.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreDriverJSON, StoreDriverSQLite)),
		validation.Field(&c.Path, validation.When(c.Driver == StoreDriverJSON, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.Driver == StoreDriverSQLite, validation.Required)),
	)
}

// UploadsConfig holds the attachment directory and size ceiling.
type UploadsConfig struct {
	Path     string `yaml:"path"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1024))),
	)
}

// SiteConfig points at the static front end and lists the browser origins
// allowed to call the API. An empty StaticDir disables static serving.
type SiteConfig struct {
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// An origin is "*" or scheme://host[:port] with an optional "*." host wildcard.
var originRe = regexp.MustCompile(`^(\*|https?://(\*\.)?[A-Za-z0-9.-]+(:[0-9]+)?)$`)

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedOrigins, validation.Each(
			validation.Required,
			validation.Match(originRe).Error("must be * or scheme://host[:port]"),
		)),
	)
}

// AuthConfig holds authentication configuration.
//
// AdminPassword seeds the hash on first boot only; afterwards the stored
// hash wins and the password is changed through the API or the passwd command.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	AdminPassword string        `yaml:"admin_password"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("auth: jwt_secret is required")
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.JWTSecret, validation.RuneLength(16, 0).Error("must be at least 16 characters")),
		validation.Field(&c.AdminPassword, validation.RuneLength(auth.MinPasswordLength, 72)),
		validation.Field(&c.TokenTTL, validation.Min(time.Minute)),
		validation.Field(&c.BcryptCost, validation.Min(4), validation.Max(31)),
	)
}

// EventsConfig tunes the change stream.
type EventsConfig struct {
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// WatchConfig toggles the file watcher.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 5000,
			},
		},
		Store: StoreConfig{
			Driver:     StoreDriverJSON,
			Path:       "./data/content.json",
			SQLitePath: "./data/folio.db",
		},
		Uploads: UploadsConfig{
			Path:     "./uploads",
			MaxBytes: uploads.DefaultMaxBytes,
		},
		Site: SiteConfig{
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			TokenTTL:   auth.DefaultTokenTTL,
			BcryptCost: auth.DefaultCost,
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}
