package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "wholesale"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "WHOLESALE_APP_ENV"
	EnvPort       = "WHOLESALE_APP_PORT"
	EnvDBDSN      = "WHOLESALE_DB_DSN"
	EnvDBHost     = "WHOLESALE_DB_HOST"
	EnvDBUser     = "WHOLESALE_DB_USER"
	EnvDBName     = "WHOLESALE_DB_NAME"
	EnvRedisURL   = "WHOLESALE_REDIS_URL"
	EnvJWTSecret  = "WHOLESALE_JWT_SECRET"
	EnvJWTIssuer  = "WHOLESALE_JWT_ISSUER"
	EnvJWTExpMins = "WHOLESALE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	CORS     CORSConfig
	AuthRate AuthRateLimitConfig
	GCP      GCPConfig
	GCS      GCSConfig
	Uploads  UploadsConfig
	PubSub   PubSubConfig
	Rates    RatesConfig
	Mail     MailConfig
	Client   ClientConfig
	Jobs     JobsConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WHOLESALE_APP_ENV" required:"true"`
	Port         string `envconfig:"WHOLESALE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WHOLESALE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WHOLESALE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WHOLESALE_DB_DSN"`
	Driver string `envconfig:"WHOLESALE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WHOLESALE_DB_HOST"`
	LegacyPort     int    `envconfig:"WHOLESALE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WHOLESALE_DB_USER"`
	LegacyPassword string `envconfig:"WHOLESALE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WHOLESALE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WHOLESALE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WHOLESALE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WHOLESALE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WHOLESALE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WHOLESALE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WHOLESALE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WHOLESALE_REDIS_ADDR"`
	Password     string        `envconfig:"WHOLESALE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WHOLESALE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WHOLESALE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WHOLESALE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WHOLESALE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WHOLESALE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WHOLESALE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WHOLESALE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WHOLESALE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WHOLESALE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WHOLESALE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WHOLESALE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WHOLESALE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WHOLESALE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WHOLESALE_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WHOLESALE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"WHOLESALE_LOGIN_RATE_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"WHOLESALE_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"WHOLESALE_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WHOLESALE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WHOLESALE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WHOLESALE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"WHOLESALE_GCS_BUCKET_NAME"`
	PublicBaseURL   string        `envconfig:"WHOLESALE_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	UploadURLExpiry time.Duration `envconfig:"WHOLESALE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type UploadsConfig struct {
	MaxUploadMB int `envconfig:"WHOLESALE_MAX_UPLOAD_MB" default:"20"`
}

type PubSubConfig struct {
	AnalyticsTopic        string `envconfig:"WHOLESALE_PUBSUB_ANALYTICS_TOPIC"`
	AnalyticsSubscription string `envconfig:"WHOLESALE_PUBSUB_ANALYTICS_SUBSCRIPTION"`
}

type RatesConfig struct {
	ProviderURL     string        `envconfig:"WHOLESALE_RATES_PROVIDER_URL" default:"https://open.er-api.com/v6/latest"`
	APIKey          string        `envconfig:"WHOLESALE_RATES_API_KEY"`
	BaseCurrency    string        `envconfig:"WHOLESALE_RATES_BASE_CURRENCY" default:"USD"`
	RefreshInterval time.Duration `envconfig:"WHOLESALE_RATES_REFRESH_INTERVAL" default:"1h"`
	RequestTimeout  time.Duration `envconfig:"WHOLESALE_RATES_REQUEST_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	APIKey      string `envconfig:"WHOLESALE_MAIL_API_KEY"`
	DefaultFrom string `envconfig:"WHOLESALE_MAIL_FROM_EMAIL"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"WHOLESALE_AUTO_MIGRATE" default:"false"`
	RatesRefresh  bool `envconfig:"WHOLESALE_FEATURE_RATES_REFRESH" default:"true"`
	AnalyticsBus  bool `envconfig:"WHOLESALE_FEATURE_ANALYTICS_BUS" default:"false"`
	SignedUploads bool `envconfig:"WHOLESALE_FEATURE_SIGNED_UPLOADS" default:"false"`
}

// JobsConfig tunes the scheduled maintenance runner.
type JobsConfig struct {
	MaintenanceCadence time.Duration `envconfig:"WHOLESALE_JOBS_MAINTENANCE_CADENCE" default:"24h"`
	LockTTL            time.Duration `envconfig:"WHOLESALE_JOBS_LOCK_TTL" default:"2h"`
	EventRetentionDays int           `envconfig:"WHOLESALE_JOBS_EVENT_RETENTION_DAYS" default:"90"`
}

// ClientConfig tunes the outbound HTTP client policies.
type ClientConfig struct {
	RetryDelay time.Duration `envconfig:"WHOLESALE_CLIENT_RETRY_DELAY" default:"500ms"`
	Timeout    time.Duration `envconfig:"WHOLESALE_CLIENT_TIMEOUT" default:"10s"`
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
