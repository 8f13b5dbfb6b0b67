package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Cookie   CookieConfig
	Stripe   StripeConfig
	SMTP     SMTPConfig
	Outbox   OutboxConfig

	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SWA_APP_ENV" required:"true"`
	Port         string `envconfig:"SWA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SWA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SWA_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SWA_AUTO_MIGRATE" default:"false"`
	PublicURL    string `envconfig:"SWA_PUBLIC_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SWA_DB_DSN"`
	Driver string `envconfig:"SWA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SWA_DB_HOST"`
	Port     int    `envconfig:"SWA_DB_PORT" default:"5432"`
	User     string `envconfig:"SWA_DB_USER"`
	Password string `envconfig:"SWA_DB_PASSWORD"`
	Name     string `envconfig:"SWA_DB_NAME"`
	SSLMode  string `envconfig:"SWA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SWA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SWA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SWA_REDIS_ADDR"`
	Password     string        `envconfig:"SWA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SWA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SWA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SWA_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SWA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SWA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SWA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SWA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SWA_ARGON_KEY_LEN" default:"32"`
}

// CookieConfig governs the signed anonymous-cart cookie.
type CookieConfig struct {
	AnonymousCartName   string        `envconfig:"SWA_ANON_CART_COOKIE_NAME" default:"an_ct"`
	AnonymousCartSecret string        `envconfig:"SWA_ANON_CART_COOKIE_SECRET" required:"true"`
	AnonymousCartMaxAge time.Duration `envconfig:"SWA_ANON_CART_COOKIE_MAX_AGE" default:"8760h"`
	Secure              bool          `envconfig:"SWA_COOKIE_SECURE" default:"true"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"SWA_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"SWA_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"SWA_STRIPE_ENV" default:"test"`
	SuccessURL    string `envconfig:"SWA_STRIPE_SUCCESS_URL"`
	CancelURL     string `envconfig:"SWA_STRIPE_CANCEL_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type SMTPConfig struct {
	Host     string `envconfig:"SWA_SMTP_HOST"`
	Port     int    `envconfig:"SWA_SMTP_PORT" default:"587"`
	Username string `envconfig:"SWA_SMTP_USERNAME"`
	Password string `envconfig:"SWA_SMTP_PASSWORD"`
}

// Addr returns host:port for the SMTP dialer.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthRateLimitConfig throttles the credential-bearing endpoints. A zero
// window disables the corresponding limiter.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SWA_LOGIN_RATE_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"SWA_LOGIN_RATE_IP_LIMIT" default:"30"`
	LoginEmailLimit    int           `envconfig:"SWA_LOGIN_RATE_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"SWA_REGISTER_RATE_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"SWA_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"SWA_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SWA_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SWA_OUTBOX_POLL_MS" default:"1000"`
	MaxAttempts    int `envconfig:"SWA_OUTBOX_MAX_ATTEMPTS" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
