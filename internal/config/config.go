package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DatabaseDriver string        `mapstructure:"DB_DRIVER"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	Port           string        `mapstructure:"PORT"`
	GinMode        string        `mapstructure:"GIN_MODE"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	CORSOrigins    string        `mapstructure:"CORS_ORIGINS"`
}

// AllowedOrigins splits CORSOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "boardshelf.db")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	AppConfig = cfg
}

// Load reads <dir>/.env, if present, and the environment into a Config.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	// AutomaticEnv only answers Get calls; bind each key so Unmarshal sees env-only values.
	for _, key := range []string{"DATABASE_URL", "DB_DRIVER", "JWT_SECRET", "PORT", "GIN_MODE", "REDIS_ADDR", "REDIS_DB", "CACHE_TTL", "CORS_ORIGINS"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
