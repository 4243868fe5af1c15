package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RENTHAVEN"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	CORS         CORSConfig
	Verification VerificationConfig
	Reminder     ReminderConfig
	Bookings     BookingsConfig
	Square       SquareConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Support      SupportConfig
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
	Env          string `envconfig:"RENTHAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTHAVEN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RENTHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTHAVEN_DB_DSN"`
	Driver string `envconfig:"RENTHAVEN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RENTHAVEN_DB_HOST"`
	Port     int    `envconfig:"RENTHAVEN_DB_PORT" default:"5432"`
	User     string `envconfig:"RENTHAVEN_DB_USER"`
	Password string `envconfig:"RENTHAVEN_DB_PASSWORD"`
	Name     string `envconfig:"RENTHAVEN_DB_NAME"`
	SSLMode  string `envconfig:"RENTHAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTHAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTHAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTHAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTHAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"RENTHAVEN_DB_AUTO_MIGRATE" default:"false"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db dsn or host/user/name are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTHAVEN_REDIS_URL"`
	Address      string        `envconfig:"RENTHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"RENTHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RENTHAVEN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RENTHAVEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RENTHAVEN_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"RENTHAVEN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RENTHAVEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RENTHAVEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RENTHAVEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RENTHAVEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RENTHAVEN_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RENTHAVEN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type VerificationConfig struct {
	MaxAttempts int           `envconfig:"RENTHAVEN_VERIFICATION_MAX_ATTEMPTS" default:"3"`
	CodeTTL     time.Duration `envconfig:"RENTHAVEN_VERIFICATION_CODE_TTL" default:"15m"`
}

type ReminderConfig struct {
	PageVisitCooldown time.Duration `envconfig:"RENTHAVEN_REMINDER_PAGE_VISIT_COOLDOWN" default:"24h"`
	PeriodicCooldown  time.Duration `envconfig:"RENTHAVEN_REMINDER_PERIODIC_COOLDOWN" default:"4h"`
	EvaluateEvery     time.Duration `envconfig:"RENTHAVEN_REMINDER_EVALUATE_EVERY" default:"30m"`
	SkipRearmAfter    time.Duration `envconfig:"RENTHAVEN_REMINDER_SKIP_REARM_AFTER" default:"2h"`
}

type BookingsConfig struct {
	// Read path races this timeout and degrades to an empty result in prod.
	ReadTimeout time.Duration `envconfig:"RENTHAVEN_BOOKINGS_READ_TIMEOUT" default:"5s"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"RENTHAVEN_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"RENTHAVEN_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"RENTHAVEN_SQUARE_LOCATION_ID"`
	Currency    string `envconfig:"RENTHAVEN_SQUARE_CURRENCY" default:"USD"`
}

func (s SquareConfig) Environment() string {
	return strings.ToLower(strings.TrimSpace(s.Env))
}

type GCPConfig struct {
	ProjectID string `envconfig:"RENTHAVEN_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	InteractionsTopic string `envconfig:"RENTHAVEN_PUBSUB_INTERACTIONS_TOPIC" default:"interaction-events"`
}

type SupportConfig struct {
	WhatsAppNumber string `envconfig:"RENTHAVEN_SUPPORT_WHATSAPP_NUMBER"`
}
