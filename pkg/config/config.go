package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Upstream     UpstreamConfig
	Search       SearchConfig
	Checkout     CheckoutConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZAARGO_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZAARGO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZAARGO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZAARGO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the grocery platform API that owns vendor,
// catalog, cart, and order data.
type UpstreamConfig struct {
	BaseURL    string        `envconfig:"BAZAARGO_UPSTREAM_BASE_URL" required:"true"`
	Timeout    time.Duration `envconfig:"BAZAARGO_UPSTREAM_TIMEOUT" default:"10s"`
	RetryCount int           `envconfig:"BAZAARGO_UPSTREAM_RETRY_COUNT" default:"2"`
	RetryDelay time.Duration `envconfig:"BAZAARGO_UPSTREAM_RETRY_DELAY" default:"500ms"`
}

type SearchConfig struct {
	DefaultRadiusKM float64       `envconfig:"BAZAARGO_SEARCH_DEFAULT_RADIUS_KM" default:"5"`
	MaxRadiusKM     float64       `envconfig:"BAZAARGO_SEARCH_MAX_RADIUS_KM" default:"50"`
	CacheTTL        time.Duration `envconfig:"BAZAARGO_SEARCH_CACHE_TTL" default:"60s"`
}

type CheckoutConfig struct {
	DeliveryFee int `envconfig:"BAZAARGO_CHECKOUT_DELIVERY_FEE" default:"40"`
}

type DBConfig struct {
	Driver string `envconfig:"BAZAARGO_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"BAZAARGO_DB_DSN" default:"bazaargo.db"`

	MaxOpenConns    int           `envconfig:"BAZAARGO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BAZAARGO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BAZAARGO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZAARGO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// IsPostgres reports whether the Postgres dialector should be used.
func (db DBConfig) IsPostgres() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverPostgres)
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZAARGO_REDIS_URL"`
	Address      string        `envconfig:"BAZAARGO_REDIS_ADDR"`
	Password     string        `envconfig:"BAZAARGO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZAARGO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZAARGO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZAARGO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZAARGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZAARGO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZAARGO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZAARGO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZAARGO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAZAARGO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAZAARGO_AUTO_MIGRATE" default:"false"`
}
