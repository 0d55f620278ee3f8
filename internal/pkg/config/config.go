package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/webscaffold/webapp/internal/errs"
)

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	// DefaultSecretKey must be replaced before running in production.
	DefaultSecretKey = "CHANGEME_IN_PRODUCTION"
)

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

type Config struct {
	AppName     string `env:"APP_NAME,    default=Web App"`
	AppVersion  string `env:"APP_VERSION, default=1.0.0"`
	Environment string `env:"ENVIRONMENT, default=development"`
	APIPrefix   string `env:"API_PREFIX,  default=/api"`
	Host        string `env:"HOST,        default=0.0.0.0"`
	Port        int    `env:"PORT,        default=8080"`
	Debug       Flag   `env:"DEBUG,       default=false"`

	SecretKey                string `env:"SECRET_KEY,                  default=CHANGEME_IN_PRODUCTION"`
	Algorithm                string `env:"ALGORITHM,                   default=HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`

	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"LOG_FILE"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Server    ServerConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,     default=10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,    default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`
}

type RateLimitConfig struct {
	Enabled  Flag          `env:"RATE_LIMIT_ENABLED,  default=false"`
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=60s"`
}

// SeedConfig describes the accounts created at startup.
type SeedConfig struct {
	DemoUsername  string `env:"DEMO_USERNAME,  default=demo"`
	DemoPassword  string `env:"DEMO_PASSWORD,  default=password"`
	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=webapp"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Flag is a boolean that also accepts yes/on/no/off.
type Flag bool

// EnvDecode satisfies envconfig.Decoder.
func (f *Flag) EnvDecode(val string) error {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "t", "true", "yes", "y", "on":
		*f = true
	case "", "0", "f", "false", "no", "n", "off":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %q", val)
	}
	return nil
}

// Load reads configuration from the process environment using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper, normalizes it and
// validates the result. Failures are errs.Configuration errors.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, errs.Configuration().Wrap(err)
	}

	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Algorithm))

	if err := cfg.Validate(); err != nil {
		return nil, errs.Configuration().Wrap(err)
	}
	return &cfg, nil
}

// Validate reports every setting that would keep the app from working.
func (c *Config) Validate() error {
	var problems []error
	if _, ok := supportedAlgorithms[c.Algorithm]; !ok {
		problems = append(problems, fmt.Errorf("unsupported ALGORITHM %q", c.Algorithm))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		problems = append(problems, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SecretKey == "" {
		problems = append(problems, errors.New("SECRET_KEY must not be empty"))
	}
	if c.IsProduction() && c.SecretKey == DefaultSecretKey {
		problems = append(problems, errors.New("SECRET_KEY must be changed in production"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		problems = append(problems, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(problems...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Pretty reports whether logs should be human-friendly.
func (c *Config) Pretty() bool {
	return bool(c.Debug) || c.IsDevelopment()
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// DocsPath is where the Swagger UI is mounted.
func (c *Config) DocsPath() string {
	return c.APIPrefix + "/docs"
}

// normalizePrefix turns "api/", "/api/" and "/api" into "/api"; "" and "/" become "".
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
