package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Cart     CartConfig
	Shipping ShippingConfig
	CORS     CORSConfig
	Checkout CheckoutConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Shipping.FlatRateAmount(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EMBERWICK_APP_ENV" required:"true"`
	Port         string `envconfig:"EMBERWICK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EMBERWICK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EMBERWICK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EMBERWICK_DB_DSN"`
	Driver string `envconfig:"EMBERWICK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EMBERWICK_DB_HOST"`
	LegacyPort     int    `envconfig:"EMBERWICK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EMBERWICK_DB_USER"`
	LegacyPassword string `envconfig:"EMBERWICK_DB_PASSWORD"`
	LegacyName     string `envconfig:"EMBERWICK_DB_NAME"`
	LegacySSLMode  string `envconfig:"EMBERWICK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EMBERWICK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EMBERWICK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EMBERWICK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EMBERWICK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EMBERWICK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EMBERWICK_REDIS_ADDR"`
	Password     string        `envconfig:"EMBERWICK_REDIS_PASSWORD"`
	DB           int           `envconfig:"EMBERWICK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EMBERWICK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EMBERWICK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EMBERWICK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EMBERWICK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EMBERWICK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EMBERWICK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EMBERWICK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EMBERWICK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"EMBERWICK_CART_SNAPSHOT_TTL" default:"720h"`
}

type ShippingConfig struct {
	FlatRate string `envconfig:"EMBERWICK_FLAT_SHIPPING_RATE" default:"15.00"`
}

// FlatRateAmount parses the configured flat shipping charge.
func (s ShippingConfig) FlatRateAmount() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.FlatRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid flat shipping rate %q: %w", s.FlatRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("flat shipping rate must not be negative")
	}
	return rate, nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EMBERWICK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"EMBERWICK_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EMBERWICK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
