package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AI        AIConfig
	Storage   StorageConfig
	Screening ScreeningConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	BodyLimitMB int
	LogJSON     bool
	LogDebug    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// MigrationsDir overrides the migrations compiled into the binary.
	MigrationsDir string
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type AIConfig struct {
	Provider     string
	APIKey       string
	Model        string
	BaseURL      string
	MaxLogLength int
}

type StorageConfig struct {
	Dir string
}

type ScreeningConfig struct {
	Concurrency int
	// RateLimit caps AI calls per second across a batch; 0 means unlimited.
	RateLimit int
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

var errInvalidEnv = errors.New("invalid environment variables")

// Load reads configuration from the process environment. A .env file in the
// working directory, when present, is loaded first without overriding
// variables that are already set.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		BodyLimitMB: v.GetInt("BODY_LIMIT_MB"),
		LogJSON:     v.GetBool("LOG_JSON"),
		LogDebug:    v.GetBool("LOG_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),

		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      time.Duration(v.GetInt("REDIS_TTL")) * time.Second,
	}

	cfg.AI = AIConfig{
		Provider:     strings.ToLower(opt("AI_PROVIDER")),
		APIKey:       req("AI_API_KEY"),
		Model:        opt("AI_MODEL"),
		BaseURL:      opt("AI_BASE_URL"),
		MaxLogLength: v.GetInt("AI_MAX_LOG_LENGTH"),
	}

	cfg.Storage = StorageConfig{
		Dir: opt("STORAGE_DIR"),
	}

	cfg.Screening = ScreeningConfig{
		Concurrency: v.GetInt("SCREENING_CONCURRENCY"),
		RateLimit:   v.GetInt("SCREENING_RATE_LIMIT"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModel(cfg.AI.Provider)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BODY_LIMIT_MB", 50)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 600)
	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("AI_BASE_URL", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("AI_MAX_LOG_LENGTH", 300)
	v.SetDefault("STORAGE_DIR", "data/resumes")
	v.SetDefault("SCREENING_CONCURRENCY", 1)
}

func (c Config) validate() error {
	var bad []string
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		bad = append(bad, "AI_PROVIDER")
	}
	if c.App.BodyLimitMB <= 0 {
		bad = append(bad, "BODY_LIMIT_MB")
	}
	if c.Screening.Concurrency <= 0 {
		bad = append(bad, "SCREENING_CONCURRENCY")
	}
	if c.Screening.RateLimit < 0 {
		bad = append(bad, "SCREENING_RATE_LIMIT")
	}
	if c.JWT.AccessExpiresIn <= 0 {
		bad = append(bad, "JWT_ACCESS_EXPIRES_IN")
	}
	if c.JWT.RefreshExpiresIn <= 0 {
		bad = append(bad, "JWT_REFRESH_EXPIRES_IN")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(bad, ", "))
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "google/gemini-2.5-flash"
}
