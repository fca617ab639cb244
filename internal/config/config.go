package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Phoenix PhoenixConfig
	App     AppConfig
	Logger  LoggerConfig
}

// PhoenixConfig holds the location of the upstream Phoenix API
type PhoenixConfig struct {
	Host string `mapstructure:"PHOENIX_HOST"`
	Port int    `mapstructure:"PHOENIX_PORT"`
}

// AppConfig holds configuration for the web server
type AppConfig struct {
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	SessionSecret          string `mapstructure:"SESSION_SECRET"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	// Set defaults first
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	// Manually populate config from viper
	config.Phoenix.Host = viper.GetString("PHOENIX_HOST")
	config.Phoenix.Port = viper.GetInt("PHOENIX_PORT")

	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.SessionSecret = viper.GetString("SESSION_SECRET")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PHOENIX_HOST", "localhost")
	viper.SetDefault("PHOENIX_PORT", 4000)

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("SESSION_SECRET", "phoenix-web-secret")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Logger defaults
	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("SERVICE_NAME", "phoenix-web")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks that the configuration is usable before wiring dependencies
func (c *Config) Validate() error {
	if c.Phoenix.Host == "" {
		return fmt.Errorf("PHOENIX_HOST must not be empty")
	}
	if c.Phoenix.Port <= 0 || c.Phoenix.Port > 65535 {
		return fmt.Errorf("PHOENIX_PORT must be a valid port, got %d", c.Phoenix.Port)
	}
	if _, err := strconv.Atoi(c.App.HTTPPort); err != nil {
		return fmt.Errorf("HTTP_PORT must be numeric, got %q", c.App.HTTPPort)
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.App.ShutdownTimeoutSeconds)
	}
	return nil
}
