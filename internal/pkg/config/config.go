package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roadpulse/fleetsim/internal/adapters/fixtures"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Data       DataConfig       `mapstructure:"data"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DataConfig points at the telemetry fixture directory. An empty
// Datasets list falls back to the bundled five-trip demo fleet.
type DataConfig struct {
	Dir      string             `mapstructure:"dir"`
	Datasets []fixtures.Dataset `mapstructure:"datasets"`
}

type SimulationConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	DefaultSpeed int           `mapstructure:"default_speed"`
	Speeds       []int         `mapstructure:"speeds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("data.dir", "./data")
	v.SetDefault("simulation.tick_interval", time.Second)
	v.SetDefault("simulation.default_speed", 1)
	v.SetDefault("simulation.speeds", []int{1, 5, 10, 50})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: FLEETSIM_SERVER_PORT → server.port
	v.SetEnvPrefix("FLEETSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Data.Dir == "" {
		errs = append(errs, "data.dir is required")
	}
	if c.Simulation.TickInterval <= 0 {
		errs = append(errs, "simulation.tick_interval must be positive")
	}
	if c.Simulation.DefaultSpeed <= 0 {
		errs = append(errs, "simulation.default_speed must be positive")
	} else if !containsInt(c.Simulation.Speeds, c.Simulation.DefaultSpeed) {
		errs = append(errs, fmt.Sprintf("simulation.default_speed %d is not in simulation.speeds", c.Simulation.DefaultSpeed))
	}
	if len(c.Simulation.Speeds) == 0 {
		errs = append(errs, "simulation.speeds must not be empty")
	}
	for _, s := range c.Simulation.Speeds {
		if s <= 0 {
			errs = append(errs, fmt.Sprintf("simulation.speeds entries must be positive, got %d", s))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
