package config

import (
	"fmt"
	"os"

	"ynovair/internal/pricing"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Booking   BookingConfig   `yaml:"booking"`
	Worker    WorkerConfig    `yaml:"worker"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// BookingConfig carries the fee schedule and booking-core tunables. The
// defaults live here and nowhere else; call sites receive the resolved
// schedule via FeeSchedule.
type BookingConfig struct {
	FlightsCacheTTLSeconds int   `yaml:"flights_cache_ttl_seconds"`
	ReferenceAttempts      int   `yaml:"reference_attempts"`
	FreeBaggageAllowanceKg int   `yaml:"free_baggage_allowance_kg"`
	MaxBaggagePerItemKg    int   `yaml:"max_baggage_per_item_kg"`
	PricePerExtraKgCents   int64 `yaml:"price_per_extra_kg_cents"`
}

func (b BookingConfig) FeeSchedule() pricing.FeeSchedule {
	schedule := pricing.DefaultFeeSchedule()
	if b.FreeBaggageAllowanceKg > 0 {
		schedule.FreeAllowanceGrams = int64(b.FreeBaggageAllowanceKg) * 1000
	}
	if b.MaxBaggagePerItemKg > 0 {
		schedule.MaxItemGrams = int64(b.MaxBaggagePerItemKg) * 1000
	}
	if b.PricePerExtraKgCents > 0 {
		schedule.PricePerExtraKgCents = b.PricePerExtraKgCents
	}
	return schedule
}

type WorkerConfig struct {
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
