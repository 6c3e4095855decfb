package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// APIConfig configures the auth API server (cmd/api).
type APIConfig struct {
	Port       string        `env:"PORT,        default=8000"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

// PortalConfig configures the browser-facing portal gateway (cmd/portal).
type PortalConfig struct {
	Port       string        `env:"PORT,       default=8080"`
	Env        string        `env:"ENV,        default=development"`
	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api/v1"`
	SessionTTL time.Duration `env:"SESSION_TTL,  default=168h"`
	LogLevel   string        `env:"LOG_LEVEL,  default=info"`

	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=waste_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoadAPI reads the API server configuration from environment variables.
func LoadAPI() *APIConfig {
	var cfg APIConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// LoadPortal reads the portal gateway configuration from environment variables.
func LoadPortal() *PortalConfig {
	var cfg PortalConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
