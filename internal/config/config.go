package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects the registry backend and the artifact directory.
// Backend is "file" or "postgres"; artifacts always live on the
// filesystem.
type StorageConfig struct {
	Backend     string
	Dir         string
	LockTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MinConns     int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("STORAGE_DIR", "models")
	v.SetDefault("STORAGE_LOCK_TIMEOUT", "30s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "model_registry")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MIN_CONNS", 2)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	lockTimeout, err := time.ParseDuration(v.GetString("STORAGE_LOCK_TIMEOUT"))
	if err != nil {
		lockTimeout = 30 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Storage: StorageConfig{
			Backend:     v.GetString("STORAGE_BACKEND"),
			Dir:         v.GetString("STORAGE_DIR"),
			LockTimeout: lockTimeout,
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DATABASE_HOST"),
			Port:         v.GetInt("DATABASE_PORT"),
			User:         v.GetString("DATABASE_USER"),
			Password:     v.GetString("DATABASE_PASSWORD"),
			Name:         v.GetString("DATABASE_NAME"),
			SSLMode:      v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MinConns:     v.GetInt("DATABASE_MIN_CONNS"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
