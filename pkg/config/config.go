package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	Port        string
	Environment string

	// Classifier artifacts
	ModelDir string

	// Places search provider
	GoogleAPIKey   string
	PlacesEndpoint string
	PlacesTimeout  time.Duration
	PlacesCacheTTL time.Duration
	RedisURL       string

	// Logging
	LogLevel  string
	LogFormat string

	// Security configuration
	AllowedOrigins     string
	TrustedProxies     string
	EnableRateLimit    bool
	RateLimitPerMinute int
	MaxRequestSize     int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("TOKEN_TTL", 30*24*time.Hour)
	v.SetDefault("MODEL_DIR", "models")
	v.SetDefault("PLACES_ENDPOINT", "https://maps.googleapis.com/maps/api/place/nearbysearch/json")
	v.SetDefault("PLACES_TIMEOUT", 15*time.Second)
	v.SetDefault("PLACES_CACHE_TTL", 10*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("MAX_REQUEST_SIZE", 1024*1024) // 1MB default
	v.AutomaticEnv()

	// An optional config.yaml next to the binary may override the defaults;
	// environment variables still take precedence.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig()

	return v
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENV"),
		ModelDir:           v.GetString("MODEL_DIR"),
		GoogleAPIKey:       v.GetString("GOOGLE_API_KEY"),
		PlacesEndpoint:     v.GetString("PLACES_ENDPOINT"),
		PlacesTimeout:      v.GetDuration("PLACES_TIMEOUT"),
		PlacesCacheTTL:     v.GetDuration("PLACES_CACHE_TTL"),
		RedisURL:           v.GetString("REDIS_URL"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		AllowedOrigins:     v.GetString("ALLOWED_ORIGINS"),
		TrustedProxies:     v.GetString("TRUSTED_PROXIES"),
		EnableRateLimit:    v.GetBool("ENABLE_RATE_LIMIT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		MaxRequestSize:     v.GetInt64("MAX_REQUEST_SIZE"),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasPlacesCredentials returns true if the places search API key is configured
func (c *Config) HasPlacesCredentials() bool {
	return c.GoogleAPIKey != ""
}

// HasRedis returns true if a Redis cache is configured
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// GetAllowedOrigins returns a slice of allowed CORS origins. An empty
// setting allows every origin, which is what the mobile client relies on.
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{"*"}
	}
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return nil // No trusted proxies by default
	}
	return strings.Split(c.TrustedProxies, ",")
}
