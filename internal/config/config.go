package config

import (
	"flag"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL = "https://localhost:44354/api"
	DefaultAddr   = "localhost:44354"
)

type Config struct {
	// Server-side settings
	Addr        string        `env:"ADDR"`
	DatabaseDSN string        `env:"DATABASE_URI"`
	SQLitePath  string        `env:"SQLITE_PATH"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	ResetTTL    time.Duration `env:"RESET_TTL"`
	AuthRPS     int           `env:"AUTH_RPS"`
	AuthBurst   int           `env:"AUTH_BURST"`
	LogLevel    string        `env:"LOG_LEVEL"`

	// Client-side settings
	APIURL         string        `env:"API_URL"`
	InsecureTLS    bool          `env:"INSECURE_TLS"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"`
	DurableBackend string        `env:"DURABLE_BACKEND"`
	TabBackend     string        `env:"TAB_BACKEND"`
	TabID          string        `env:"CLINICDESK_TAB"`
	ExclusiveTiers bool          `env:"EXCLUSIVE_TIERS"`
	Debug          bool          `env:"CLINICDESK_DEBUG"`
	Version        bool          `env:"-"` // show client version and exit (flag only)
}

// NewConfig собирает конфигурацию: env (.env подхватывается godotenv), затем флаги командной строки.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.Addr, "a", cfg.Addr, "address of the development backend (host:port)")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN for the development backend")
	flag.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "SQLite file for the development backend (used when -d is empty)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret used to sign JWT")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "server log level: debug, info, warn, error")
	// Client flags
	flag.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "base URL of the clinic REST API, e.g. https://host:port/api")
	flag.BoolVar(&cfg.InsecureTLS, "insecure", cfg.InsecureTLS, "skip TLS certificate verification (client)")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-request HTTP timeout (client)")
	flag.StringVar(&cfg.DurableBackend, "durable-backend", cfg.DurableBackend, "durable session tier: fs or sqlite")
	flag.StringVar(&cfg.TabBackend, "tab-backend", cfg.TabBackend, "tab-scoped session tier: fs or memory")
	flag.BoolVar(&cfg.ExclusiveTiers, "exclusive-tiers", cfg.ExclusiveTiers, "clear the other session tier on login")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log HTTP traffic to stderr (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// Addr must be "host:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.Addr) {
		cfg.Addr = DefaultAddr
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	if cfg.AuthRPS <= 0 {
		cfg.AuthRPS = 5
	}
	if cfg.AuthBurst <= 0 {
		cfg.AuthBurst = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	cfg.APIURL = normalizeAPIURL(cfg.APIURL)
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	switch cfg.DurableBackend {
	case "fs", "sqlite":
	default:
		cfg.DurableBackend = "fs"
	}
	switch cfg.TabBackend {
	case "fs", "memory":
	default:
		cfg.TabBackend = "fs"
	}
}

// normalizeAPIURL accepts a full URL or a bare host:port and returns a URL without a trailing slash.
// Anything unparsable falls back to DefaultAPIURL.
func normalizeAPIURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultAPIURL
	}
	if hostPortRe.MatchString(raw) {
		return "https://" + raw + "/api"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return DefaultAPIURL
	}
	return strings.TrimRight(u.String(), "/")
}
