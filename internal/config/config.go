package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Images   ImageConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	MigrationsDir   string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// CacheConfig holds caching TTL configuration
type CacheConfig struct {
	ProductStatsTTL time.Duration
}

// AuthConfig holds the moderator bearer token settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
	// EphemeralSecret is set when JWTSecret was generated for this process
	// because AUTH_JWT_SECRET was unset. Tokens signed elsewhere never validate.
	EphemeralSecret bool
}

// ImageConfig holds review image upload limits
type ImageConfig struct {
	MaxBytes     int64
	MaxPerReview int
}

// Load reads configuration from environment variables and returns a Config struct
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	durations := map[string]*time.Duration{}
	var (
		readTimeout, writeTimeout, shutdownTimeout, requestTimeout time.Duration
		connMaxLifetime, statsTTL, tokenTTL                        time.Duration
	)
	durations["SERVER_READ_TIMEOUT"] = &readTimeout
	durations["SERVER_WRITE_TIMEOUT"] = &writeTimeout
	durations["SERVER_SHUTDOWN_TIMEOUT"] = &shutdownTimeout
	durations["SERVER_REQUEST_TIMEOUT"] = &requestTimeout
	durations["DB_CONN_MAX_LIFETIME"] = &connMaxLifetime
	durations["CACHE_TTL_PRODUCT_STATS"] = &statsTTL
	durations["AUTH_TOKEN_TTL"] = &tokenTTL

	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	allowedOrigins := strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			RequestTimeout:  requestTimeout,
			AllowedOrigins:  allowedOrigins,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			MigrationsDir:   v.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ProductStatsTTL: statsTTL,
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			Issuer:    v.GetString("AUTH_JWT_ISSUER"),
			Audience:  v.GetString("AUTH_JWT_AUDIENCE"),
			TokenTTL:  tokenTTL,
		},
		Images: ImageConfig{
			MaxBytes:     v.GetInt64("IMAGE_MAX_BYTES"),
			MaxPerReview: v.GetInt("IMAGE_MAX_PER_REVIEW"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "product_reviews")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MIGRATIONS_DIR", "migrations")

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_TTL_PRODUCT_STATS", "300s")

	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("AUTH_JWT_ISSUER", "product-reviews")
	v.SetDefault("AUTH_JWT_AUDIENCE", "product-reviews-admin")
	v.SetDefault("AUTH_TOKEN_TTL", "12h")

	v.SetDefault("IMAGE_MAX_BYTES", 5*1024*1024)
	v.SetDefault("IMAGE_MAX_PER_REVIEW", 5)
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.Env != "development" && c.Env != "test" {
			return fmt.Errorf("AUTH_JWT_SECRET is required in %s", c.Env)
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generate AUTH_JWT_SECRET: %w", err)
		}
		c.Auth.JWTSecret = secret
		c.Auth.EphemeralSecret = true
	}
	if c.Images.MaxBytes <= 0 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be positive, got %d", c.Images.MaxBytes)
	}
	if c.Images.MaxPerReview <= 0 {
		return fmt.Errorf("IMAGE_MAX_PER_REVIEW must be positive, got %d", c.Images.MaxPerReview)
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
