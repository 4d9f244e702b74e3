package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Broker   BrokerConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
}

type BrokerConfig struct {
	URL       string
	QueueName string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type SMTPConfig struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
}

type WorkerConfig struct {
	Prefetch int
}

// Load reads configuration from the environment. POSTGRES_URL and AMQP_URL
// are required; the process must not start without them.
func Load() (*Config, error) {
	pgURL := os.Getenv("POSTGRES_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("missing required env var: POSTGRES_URL")
	}
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		return nil, fmt.Errorf("missing required env var: AMQP_URL")
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			URL:      pgURL,
			MaxConns: getEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		Broker: BrokerConfig{
			URL:       amqpURL,
			QueueName: getEnv("QUEUE_NAME", "q.email.send"),
		},
		Worker: WorkerConfig{
			Prefetch: getEnvInt("PREFETCH", 5),
		},
		Redis: loadRedisConfig(),
		SMTP:  loadSMTPConfig(),
	}

	if cfg.Worker.Prefetch <= 0 {
		return nil, fmt.Errorf("PREFETCH must be > 0")
	}
	return cfg, nil
}

func loadRedisConfig() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}
	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 86400)) * time.Second,
	}
}

func loadSMTPConfig() SMTPConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return SMTPConfig{Enabled: false}
	}
	return SMTPConfig{
		Enabled:     true,
		Host:        host,
		Port:        getEnvInt("SMTP_PORT", 587),
		User:        os.Getenv("SMTP_USER"),
		Password:    os.Getenv("SMTP_PASSWORD"),
		FromAddress: getEnv("SMTP_FROM_ADDRESS", "noreply@localhost"),
		FromName:    getEnv("SMTP_FROM_NAME", "mailpipe"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
