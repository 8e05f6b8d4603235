package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Checkout      CheckoutConfig
	Cloudinary    CloudinaryConfig
	SMTP          SMTPConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"WOODKARI_APP_ENV" required:"true"`
	Port         string `envconfig:"WOODKARI_APP_PORT" default:"8080"`
	SiteURL      string `envconfig:"WOODKARI_SITE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"WOODKARI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WOODKARI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WOODKARI_DB_DSN"`
	Driver string `envconfig:"WOODKARI_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WOODKARI_DB_HOST"`
	Port     int    `envconfig:"WOODKARI_DB_PORT" default:"5432"`
	User     string `envconfig:"WOODKARI_DB_USER"`
	Password string `envconfig:"WOODKARI_DB_PASSWORD"`
	Name     string `envconfig:"WOODKARI_DB_NAME"`
	SSLMode  string `envconfig:"WOODKARI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WOODKARI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WOODKARI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WOODKARI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WOODKARI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config: either WOODKARI_DB_DSN or host/user/name parts are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WOODKARI_REDIS_URL"`
	Address      string        `envconfig:"WOODKARI_REDIS_ADDR"`
	Password     string        `envconfig:"WOODKARI_REDIS_PASSWORD"`
	DB           int           `envconfig:"WOODKARI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WOODKARI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WOODKARI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WOODKARI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WOODKARI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WOODKARI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WOODKARI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WOODKARI_JWT_ISSUER" default:"woodkari"`
	ExpirationMinutes      int    `envconfig:"WOODKARI_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"WOODKARI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WOODKARI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WOODKARI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WOODKARI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WOODKARI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WOODKARI_ARGON_KEY_LEN" default:"32"`

	ResetTokenTTL time.Duration `envconfig:"WOODKARI_PASSWORD_RESET_TTL" default:"30m"`
}

// CheckoutConfig carries the storefront pricing constants. The same values
// feed the cart preview and the persisted order so the two always agree.
type CheckoutConfig struct {
	FreeShippingThreshold string `envconfig:"WOODKARI_FREE_SHIPPING_THRESHOLD" default:"500"`
	FlatShippingFee       string `envconfig:"WOODKARI_FLAT_SHIPPING_FEE" default:"35"`
	TaxRate               string `envconfig:"WOODKARI_TAX_RATE" default:"0.08"`
}

func (c CheckoutConfig) Decimals() (threshold, fee, rate decimal.Decimal, err error) {
	threshold, err = decimal.NewFromString(c.FreeShippingThreshold)
	if err != nil {
		return threshold, fee, rate, fmt.Errorf("parsing free shipping threshold: %w", err)
	}
	fee, err = decimal.NewFromString(c.FlatShippingFee)
	if err != nil {
		return threshold, fee, rate, fmt.Errorf("parsing flat shipping fee: %w", err)
	}
	rate, err = decimal.NewFromString(c.TaxRate)
	if err != nil {
		return threshold, fee, rate, fmt.Errorf("parsing tax rate: %w", err)
	}
	return threshold, fee, rate, nil
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"WOODKARI_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"WOODKARI_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"WOODKARI_CLOUDINARY_API_SECRET"`
	// Namespace prefixes every upload folder and marks which URLs this
	// application owns and may delete.
	Namespace string        `envconfig:"WOODKARI_CLOUDINARY_NAMESPACE" default:"woodkari"`
	Timeout   time.Duration `envconfig:"WOODKARI_CLOUDINARY_TIMEOUT" default:"30s"`
}

type SMTPConfig struct {
	Host      string `envconfig:"WOODKARI_SMTP_HOST"`
	Port      int    `envconfig:"WOODKARI_SMTP_PORT" default:"587"`
	Username  string `envconfig:"WOODKARI_SMTP_USERNAME"`
	Password  string `envconfig:"WOODKARI_SMTP_PASSWORD"`
	FromEmail string `envconfig:"WOODKARI_SMTP_FROM_EMAIL"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WOODKARI_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// AuthRateLimitConfig throttles credential-guessing surfaces. Zero windows or
// limits disable the corresponding counter.
type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"WOODKARI_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"WOODKARI_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"WOODKARI_RL_LOGIN_EMAIL_LIMIT" default:"8"`

	RegisterWindow  time.Duration `envconfig:"WOODKARI_RL_REGISTER_WINDOW" default:"10m"`
	RegisterIPLimit int           `envconfig:"WOODKARI_RL_REGISTER_IP_LIMIT" default:"10"`

	ForgotPasswordWindow     time.Duration `envconfig:"WOODKARI_RL_FORGOT_WINDOW" default:"15m"`
	ForgotPasswordIPLimit    int           `envconfig:"WOODKARI_RL_FORGOT_IP_LIMIT" default:"10"`
	ForgotPasswordEmailLimit int           `envconfig:"WOODKARI_RL_FORGOT_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WOODKARI_FEATURE_AUTO_MIGRATE" default:"false"`
}
