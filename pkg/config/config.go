package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Lockout       LockoutConfig
	Reset         ResetConfig
	Mail          MailConfig
	RateLimit     RateLimitConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"TOURHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"TOURHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TOURHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOURHUB_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"TOURHUB_APP_BASE_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TOURHUB_DB_DSN"`
	Driver string `envconfig:"TOURHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TOURHUB_DB_HOST"`
	Port     int    `envconfig:"TOURHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"TOURHUB_DB_USER"`
	Password string `envconfig:"TOURHUB_DB_PASSWORD"`
	Name     string `envconfig:"TOURHUB_DB_NAME"`
	SSLMode  string `envconfig:"TOURHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TOURHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TOURHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TOURHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TOURHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOURHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TOURHUB_REDIS_ADDR"`
	Password     string        `envconfig:"TOURHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOURHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOURHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOURHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOURHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOURHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOURHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TOURHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TOURHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TOURHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	CookieExpiryHours int    `envconfig:"TOURHUB_JWT_COOKIE_EXPIRY_HOURS" default:"24"`
}

// CookieExpiry returns the lifetime used for the httpOnly token cookie. It is
// deliberately independent of the JWT expiry.
func (j JWTConfig) CookieExpiry() time.Duration {
	if j.CookieExpiryHours <= 0 {
		return 0
	}
	return time.Duration(j.CookieExpiryHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TOURHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TOURHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TOURHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TOURHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TOURHUB_ARGON_KEY_LEN" default:"32"`
}

type LockoutConfig struct {
	BlockThreshold   int           `envconfig:"TOURHUB_LOCKOUT_BLOCK_THRESHOLD" default:"10"`
	SuspendThreshold int           `envconfig:"TOURHUB_LOCKOUT_SUSPEND_THRESHOLD" default:"25"`
	BlockDuration    time.Duration `envconfig:"TOURHUB_LOCKOUT_BLOCK_DURATION" default:"1h"`
}

type ResetConfig struct {
	TokenTTL time.Duration `envconfig:"TOURHUB_RESET_TOKEN_TTL" default:"10m"`
}

type MailConfig struct {
	SMTPHost string `envconfig:"TOURHUB_SMTP_HOST"`
	SMTPPort int    `envconfig:"TOURHUB_SMTP_PORT" default:"587"`
	Username string `envconfig:"TOURHUB_SMTP_USERNAME"`
	Password string `envconfig:"TOURHUB_SMTP_PASSWORD"`
	From     string `envconfig:"TOURHUB_SMTP_FROM" default:"noreply@tourhub.io"`
}

type RateLimitConfig struct {
	APIWindow time.Duration `envconfig:"TOURHUB_RATE_LIMIT_API_WINDOW" default:"1h"`
	APILimit  int           `envconfig:"TOURHUB_RATE_LIMIT_API_LIMIT" default:"100"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"TOURHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"TOURHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"TOURHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"TOURHUB_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"TOURHUB_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"TOURHUB_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TOURHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TOURHUB_AUTO_MIGRATE" default:"false"`
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
