package campusdesk

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/jwt"
)

// Config is the complete client configuration. Build it from [DefaultConfig], adjust
// it during initialization and treat it as immutable once passed to [Builder].
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Polling PollingConfig `yaml:"polling"`
	Meals   MealsConfig   `yaml:"meals"`
	Notices NoticesConfig `yaml:"notices"`
	Metrics MetricsConfig `yaml:"metrics"`
	Gateway GatewayConfig `yaml:"gateway"`
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig points the client at the campus backend.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageBackend selects where the session is persisted.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

// StorageConfig configures the session storage backend.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend"`
	// Path is the session file. Empty resolves to session.json under the state dir.
	Path string `yaml:"path"`
	// Watch reloads the session when another process rewrites the file.
	Watch       bool   `yaml:"watch"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPrefix string `yaml:"redis_prefix"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls how persisted tokens are read back.
type SessionConfig struct {
	// SigningMethod is "" (decode only), "hs256" or "ed25519".
	SigningMethod string `yaml:"signing_method"`
	// VerifyKeyFile is read into VerifyKey by the CLI.
	VerifyKeyFile string        `yaml:"verify_key_file"`
	VerifyKey     []byte        `yaml:"-"`
	Issuer        string        `yaml:"issuer"`
	Leeway        time.Duration `yaml:"leeway"`
	// SubscriberBuffer sizes the channels handed out by Desk.Subscribe.
	SubscriberBuffer int `yaml:"subscriber_buffer"`
}

/*
====================================
POLLING CONFIG
====================================
*/

// PollingConfig sets the timer periods of the background pollers.
type PollingConfig struct {
	FeedbackInterval time.Duration `yaml:"feedback_interval"`
	StatsInterval    time.Duration `yaml:"stats_interval"`
}

/*
====================================
MEALS CONFIG
====================================
*/

// MealWindowConfig is one feedback window in "15:04" notation.
type MealWindowConfig struct {
	Meal  string `yaml:"meal"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// MealsConfig holds the campus time zone and the feedback windows.
type MealsConfig struct {
	// Timezone is an IANA name; empty means the local zone.
	Timezone string             `yaml:"timezone"`
	Windows  []MealWindowConfig `yaml:"windows"`
}

// Location resolves Timezone.
func (c MealsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// MealWindows parses Windows.
func (c MealsConfig) MealWindows() ([]campus.MealWindow, error) {
	out := make([]campus.MealWindow, 0, len(c.Windows))
	for _, w := range c.Windows {
		meal, ok := campus.ParseMealType(w.Meal)
		if !ok {
			return nil, fmt.Errorf("meal window: unknown meal %q", w.Meal)
		}
		start, err := parseClock(w.Start)
		if err != nil {
			return nil, fmt.Errorf("meal window %s start: %w", meal, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return nil, fmt.Errorf("meal window %s end: %w", meal, err)
		}
		if end < start {
			return nil, fmt.Errorf("meal window %s ends before it starts", meal)
		}
		out = append(out, campus.MealWindow{Meal: meal, Start: start, End: end})
	}
	return out, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

/*
====================================
NOTICES CONFIG
====================================
*/

// NoticesConfig configures the asynchronous notice dispatcher.
type NoticesConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
	DropIfFull bool `yaml:"drop_if_full"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

/*
====================================
GATEWAY CONFIG
====================================
*/

// GatewayConfig configures the local portal gateway.
type GatewayConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	// TrustBearer lets requests carrying a bearer token act as that session instead of
	// the persisted one.
	TrustBearer bool `yaml:"trust_bearer"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000/api",
			Timeout:   30 * time.Second,
			UserAgent: "campusdesk",
		},
		Storage: StorageConfig{
			Backend:     StorageFile,
			Watch:       true,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "campusdesk",
		},
		Session: SessionConfig{
			SubscriberBuffer: 8,
		},
		Polling: PollingConfig{
			FeedbackInterval: 10 * time.Minute,
			StatsInterval:    30 * time.Second,
		},
		Meals: MealsConfig{
			Windows: []MealWindowConfig{
				{Meal: "breakfast", Start: "08:00", End: "10:30"},
				{Meal: "lunch", Start: "12:30", End: "15:00"},
				{Meal: "dinner", Start: "19:30", End: "22:00"},
			},
		},
		Notices: NoticesConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Gateway: GatewayConfig{
			Addr:              "127.0.0.1:8088",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.VerifyKey = cloneBytes(cfg.Session.VerifyKey)
	if cfg.Meals.Windows != nil {
		out.Meals.Windows = append([]MealWindowConfig(nil), cfg.Meals.Windows...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first setting the client cannot run with, wrapped in
// [ErrInvalidConfig].
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	// API
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || c.API.BaseURL == "" || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API BaseURL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("API Timeout must be > 0")
	}

	// Storage
	switch c.Storage.Backend {
	case StorageFile, StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("redis storage requires RedisAddr")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New("Storage RedisDB must be >= 0")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}

	// Session
	switch jwt.SigningMethod(c.Session.SigningMethod) {
	case jwt.MethodNone:
	case jwt.MethodHS256, jwt.MethodEd25519:
		if len(c.Session.VerifyKey) == 0 && c.Session.VerifyKeyFile == "" {
			return fmt.Errorf("%s requires a verify key", c.Session.SigningMethod)
		}
	default:
		return fmt.Errorf("unsupported session signing method %q", c.Session.SigningMethod)
	}
	if c.Session.Leeway < 0 || c.Session.Leeway > 2*time.Minute {
		return errors.New("Session Leeway must be within [0, 2m]")
	}
	if c.Session.SubscriberBuffer < 0 {
		return errors.New("Session SubscriberBuffer must be >= 0")
	}

	// Polling
	if c.Polling.FeedbackInterval <= 0 {
		return errors.New("Polling FeedbackInterval must be > 0")
	}
	if c.Polling.StatsInterval <= 0 {
		return errors.New("Polling StatsInterval must be > 0")
	}

	// Meals
	if _, err := c.Meals.Location(); err != nil {
		return fmt.Errorf("Meals Timezone: %v", err)
	}
	if _, err := c.Meals.MealWindows(); err != nil {
		return err
	}

	// Notices
	if c.Notices.Enabled && c.Notices.BufferSize <= 0 {
		return errors.New("Notices BufferSize must be > 0 when enabled")
	}

	// Gateway
	if c.Gateway.Addr == "" {
		return errors.New("Gateway Addr must be set")
	}
	if c.Gateway.ShutdownTimeout < 0 || c.Gateway.ReadHeaderTimeout < 0 {
		return errors.New("Gateway timeouts must be >= 0")
	}
	if c.Gateway.TrustBearer && jwt.SigningMethod(c.Session.SigningMethod) == jwt.MethodNone {
		return errors.New("Gateway TrustBearer requires a Session SigningMethod")
	}

	return nil
}
