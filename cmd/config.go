package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	NSQDAddress    string
	LookupdAddress string
	RedisAddress   string

	JWTSecret       string
	OutboxSchedule  string
	OutboxRetention time.Duration
	InFlightTTL     time.Duration
}

// LoadConfig reads the environment, after loading .env when one is present.
// Keys are upper snake case, for example HTTP_PORT or DB_HOST.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_port", "8082")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "relay")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("nsqd_address", "localhost:4150")
	v.SetDefault("lookupd_address", "")
	v.SetDefault("redis_address", "localhost:6379")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("outbox_schedule", "* * * * * *")
	v.SetDefault("outbox_retention", 24*time.Hour)
	v.SetDefault("inflight_ttl", 30*time.Second)

	cfg := Config{
		HTTPPort:        v.GetString("http_port"),
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBUser:          v.GetString("db_user"),
		DBPassword:      v.GetString("db_password"),
		DBName:          v.GetString("db_name"),
		DBSslMode:       v.GetString("db_sslmode"),
		NSQDAddress:     v.GetString("nsqd_address"),
		LookupdAddress:  v.GetString("lookupd_address"),
		RedisAddress:    v.GetString("redis_address"),
		JWTSecret:       v.GetString("jwt_secret"),
		OutboxSchedule:  v.GetString("outbox_schedule"),
		OutboxRetention: v.GetDuration("outbox_retention"),
		InFlightTTL:     v.GetDuration("inflight_ttl"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
