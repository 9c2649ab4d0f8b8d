package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Pricing      PricingConfig
	PlannedPrice PlannedPriceConfig
	Telemetry    TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings.
// When disabled the job lock falls back to an in-process lock.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	Issuer                string
	AccessTokenExpiration time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// PricingConfig holds price computation settings
type PricingConfig struct {
	// ProductPriceDigits is the "Product Price" decimal precision.
	ProductPriceDigits int32
	// DefaultCurrency is used for products and pricelists without a currency.
	DefaultCurrency string
}

// PlannedPriceConfig holds settings of the planned price update job
type PlannedPriceConfig struct {
	Enabled           bool
	DailyCronSchedule string // "minute hour * * *"
	BatchSize         int
	RetriggerDelay    time.Duration
	LockTTL           time.Duration
	JobTimeout        time.Duration
}

// TelemetryConfig holds OpenTelemetry export and Prometheus settings
type TelemetryConfig struct {
	TracingEnabled    bool
	LogsEnabled       bool
	CollectorEndpoint string
	Insecure          bool
	SamplingRatio     float64
	// LogsLevel is the minimum level exported over OTLP.
	LogsLevel string

	DBTracingEnabled bool
	DBLogFullSQL     bool
	SlowQueryThresh  time.Duration

	MetricsEnabled bool
	MetricsPath    string

	// Continuous profiling via Pyroscope.
	ProfilingEnabled   bool
	ProfilerAddress    string
	ProfilerAuthUser   string
	ProfilerAuthPass   string
	ProfileTypes       []string
	SpanProfiles       bool
	MutexProfileRate   int
	BlockProfileRateNs int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PRODEXT_ prefix (e.g., PRODEXT_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PRODEXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			Issuer:                v.GetString("jwt.issuer"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		Pricing: PricingConfig{
			ProductPriceDigits: v.GetInt32("pricing.product_price_digits"),
			DefaultCurrency:    v.GetString("pricing.default_currency"),
		},
		PlannedPrice: PlannedPriceConfig{
			Enabled:           v.GetBool("planned_price.enabled"),
			DailyCronSchedule: v.GetString("planned_price.daily_cron_schedule"),
			BatchSize:         v.GetInt("planned_price.batch_size"),
			RetriggerDelay:    v.GetDuration("planned_price.retrigger_delay"),
			LockTTL:           v.GetDuration("planned_price.lock_ttl"),
			JobTimeout:        v.GetDuration("planned_price.job_timeout"),
		},
		Telemetry: TelemetryConfig{
			TracingEnabled:     v.GetBool("telemetry.tracing_enabled"),
			LogsEnabled:        v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint:  v.GetString("telemetry.collector_endpoint"),
			Insecure:           v.GetBool("telemetry.insecure"),
			SamplingRatio:      v.GetFloat64("telemetry.sampling_ratio"),
			LogsLevel:          v.GetString("telemetry.logs_level"),
			DBTracingEnabled:   v.GetBool("telemetry.db_tracing_enabled"),
			DBLogFullSQL:       v.GetBool("telemetry.db_log_full_sql"),
			SlowQueryThresh:    v.GetDuration("telemetry.slow_query_threshold"),
			MetricsEnabled:     v.GetBool("telemetry.metrics_enabled"),
			MetricsPath:        v.GetString("telemetry.metrics_path"),
			ProfilingEnabled:   v.GetBool("telemetry.profiling_enabled"),
			ProfilerAddress:    v.GetString("telemetry.profiler_address"),
			ProfilerAuthUser:   v.GetString("telemetry.profiler_auth_user"),
			ProfilerAuthPass:   v.GetString("telemetry.profiler_auth_password"),
			ProfileTypes:       v.GetStringSlice("telemetry.profile_types"),
			SpanProfiles:       v.GetBool("telemetry.span_profiles"),
			MutexProfileRate:   v.GetInt("telemetry.mutex_profile_rate"),
			BlockProfileRateNs: v.GetInt("telemetry.block_profile_rate"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "productext"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "productext"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "productext"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID", "X-Company-ID"}
	}
	if cfg.Pricing.ProductPriceDigits == 0 {
		cfg.Pricing.ProductPriceDigits = 2
	}
	if cfg.Pricing.DefaultCurrency == "" {
		cfg.Pricing.DefaultCurrency = "USD"
	}
	if cfg.PlannedPrice.DailyCronSchedule == "" {
		cfg.PlannedPrice.DailyCronSchedule = "0 3 * * *"
	}
	if cfg.PlannedPrice.BatchSize == 0 {
		cfg.PlannedPrice.BatchSize = 1000
	}
	if cfg.PlannedPrice.RetriggerDelay == 0 {
		cfg.PlannedPrice.RetriggerDelay = 5 * time.Second
	}
	if cfg.PlannedPrice.LockTTL == 0 {
		cfg.PlannedPrice.LockTTL = 30 * time.Minute
	}
	if cfg.PlannedPrice.JobTimeout == 0 {
		cfg.PlannedPrice.JobTimeout = 20 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = "info"
	}
	if cfg.Telemetry.SlowQueryThresh == 0 {
		cfg.Telemetry.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
	if cfg.Telemetry.ProfilerAddress == "" {
		cfg.Telemetry.ProfilerAddress = "http://localhost:4040"
	}
	if len(cfg.Telemetry.ProfileTypes) == 0 {
		cfg.Telemetry.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Pricing.ProductPriceDigits < 0 || c.Pricing.ProductPriceDigits > 6 {
		return fmt.Errorf("pricing.product_price_digits must be between 0 and 6, got %d", c.Pricing.ProductPriceDigits)
	}
	if c.PlannedPrice.BatchSize <= 0 {
		return fmt.Errorf("planned_price.batch_size must be positive")
	}
	if c.PlannedPrice.LockTTL < c.PlannedPrice.JobTimeout {
		return fmt.Errorf("planned_price.lock_ttl (%s) must not be shorter than planned_price.job_timeout (%s)",
			c.PlannedPrice.LockTTL, c.PlannedPrice.JobTimeout)
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %g", c.Telemetry.SamplingRatio)
	}
	if !strings.HasPrefix(c.Telemetry.MetricsPath, "/") {
		return fmt.Errorf("telemetry.metrics_path must start with '/'")
	}
	if c.Telemetry.MutexProfileRate < 0 || c.Telemetry.BlockProfileRateNs < 0 {
		return fmt.Errorf("telemetry mutex/block profile rates cannot be negative")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
