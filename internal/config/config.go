package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application
// The values are read by viper from a config file or environment variables
type Config struct {
	DBSource          string        `mapstructure:"DB_SOURCE" validate:"required"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS" validate:"required"`
	GoogleAPIKey      string        `mapstructure:"GOOGLE_API_KEY" validate:"required"`
	GeocodeBaseURL    string        `mapstructure:"GEOCODE_BASE_URL" validate:"required,url"`
	GeocodeTimeout    time.Duration `mapstructure:"GEOCODE_TIMEOUT" validate:"gt=0"`
	LineChannelSecret string        `mapstructure:"LINE_CHANNEL_SECRET"`
	LogLevel          string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFormat         string        `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	AutoMigrate       bool          `mapstructure:"AUTO_MIGRATE"`
}

var validate = validator.New()

// LoadConfig reads app.env from path if present, then overlays environment variables
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Every key needs a default so that Unmarshal sees env-only values
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("GEOCODE_TIMEOUT", 10*time.Second)
	v.SetDefault("LINE_CHANNEL_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AUTO_MIGRATE", false)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("config: read file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config: invalid: %w", err)
	}

	return cfg, nil
}
