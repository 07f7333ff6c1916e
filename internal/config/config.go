package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Recorder RecorderConfig
	Kafka    KafkaConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type RecorderConfig struct {
	Enabled    bool
	Count      int
	BufferSize int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 25),
		},
		Recorder: RecorderConfig{
			Enabled:    getEnvBool("RECORDER_ENABLED", true),
			Count:      getEnvInt("RECORDER_WORKER_COUNT", 2),
			BufferSize: getEnvInt("RECORDER_BUFFER_SIZE", 64),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "consequence.projections"),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/consequence-mirror.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s, got %d", c.Server.RateLimitRPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Recorder.Enabled {
		if c.Recorder.Count < 1 {
			return fmt.Errorf("recorder worker count must be at least 1, got %d", c.Recorder.Count)
		}
		if c.Recorder.BufferSize < 1 {
			return fmt.Errorf("recorder buffer size must be at least 1, got %d", c.Recorder.BufferSize)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka enabled but no brokers configured")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka enabled but no topic configured")
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
