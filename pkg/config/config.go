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
	CSRF          CSRFConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Square        SquareConfig
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
	Env          string `envconfig:"CALDERA_APP_ENV" required:"true"`
	Port         string `envconfig:"CALDERA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CALDERA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CALDERA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CALDERA_DB_DSN"`
	Driver string `envconfig:"CALDERA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CALDERA_DB_HOST"`
	LegacyPort     int    `envconfig:"CALDERA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CALDERA_DB_USER"`
	LegacyPassword string `envconfig:"CALDERA_DB_PASSWORD"`
	LegacyName     string `envconfig:"CALDERA_DB_NAME"`
	LegacySSLMode  string `envconfig:"CALDERA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CALDERA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CALDERA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CALDERA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CALDERA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CALDERA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CALDERA_REDIS_ADDR"`
	Password     string        `envconfig:"CALDERA_REDIS_PASSWORD"`
	DB           int           `envconfig:"CALDERA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CALDERA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CALDERA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CALDERA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CALDERA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CALDERA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CALDERA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CALDERA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CALDERA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CALDERA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
	CookieDomain           string `envconfig:"CALDERA_AUTH_COOKIE_DOMAIN"`
	CookieSecure           bool   `envconfig:"CALDERA_AUTH_COOKIE_SECURE" default:"true"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CSRFConfig struct {
	TTLMinutes int `envconfig:"CALDERA_CSRF_TTL_MINUTES" default:"720"`
}

// TTL returns the CSRF token lifetime.
func (c CSRFConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CALDERA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CALDERA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CALDERA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CALDERA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CALDERA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CALDERA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"CALDERA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"CALDERA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CALDERA_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CALDERA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CALDERA_AUTO_MIGRATE" default:"false"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"CALDERA_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"CALDERA_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
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
