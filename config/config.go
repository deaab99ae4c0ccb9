package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type ReminderConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LeadWindow    time.Duration `mapstructure:"lead_window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// StudioConfig pins the studio's authoritative pricing tables. The factor
// tables are configuration, not code: the numbers below are the studio's, not
// an approximation, and pricing refuses sizes or complexity levels the tables
// do not name.
type StudioConfig struct {
	StandardHourlyRate float64            `mapstructure:"standard_hourly_rate"`
	DepositRate        float64            `mapstructure:"deposit_rate"`
	BaseHours          map[string]float64 `mapstructure:"base_hours"`
	SizeFactors        map[string]float64 `mapstructure:"size_factors"`
	PlacementFactors   map[string]float64 `mapstructure:"placement_factors"`
	// Keyed by the complexity level's decimal string; yaml integer keys
	// arrive as strings through viper.
	ComplexityFactors map[string]float64 `mapstructure:"complexity_factors"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Studio    StudioConfig    `mapstructure:"studio"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 20.0)
	viper.SetDefault("rate_limit.burst", 40)

	viper.SetDefault("outbox.batch_size", 50)
	viper.SetDefault("outbox.poll_interval", 5*time.Second)
	viper.SetDefault("outbox.retry_attempts", 3)
	viper.SetDefault("outbox.retry_delay", 2*time.Second)

	viper.SetDefault("reminder.enabled", true)
	viper.SetDefault("reminder.lead_window", 24*time.Hour)
	viper.SetDefault("reminder.sweep_interval", 15*time.Minute)

	viper.SetDefault("studio.standard_hourly_rate", 120.0)
	viper.SetDefault("studio.deposit_rate", 0.30)
	viper.SetDefault("studio.base_hours", map[string]float64{
		"small":  1,
		"medium": 3,
		"large":  5,
	})
	viper.SetDefault("studio.size_factors", map[string]float64{
		"small":  1.0,
		"medium": 2.0,
		"large":  3.5,
	})
	viper.SetDefault("studio.placement_factors", map[string]float64{
		"arm":  1.0,
		"back": 1.0,
		"ribs": 1.5,
	})
	viper.SetDefault("studio.complexity_factors", map[string]float64{
		"1": 1.0,
		"2": 1.10,
		"3": 1.15,
		"4": 1.20,
		"5": 1.25,
	})
}
