package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT"`

	// Export Configuration
	ExportDir       string `mapstructure:"EXPORT_DIR" validate:"required"`
	ExportFormat    string `mapstructure:"EXPORT_FORMAT" validate:"oneof=mp4 webm"`
	FrameQueueDepth int    `mapstructure:"FRAME_QUEUE_DEPTH" validate:"gte=1"`
	LUTSize         int    `mapstructure:"LUT_SIZE" validate:"gte=2,lte=129"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
	slog.Info("Environment variables bound", "config", c)
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8196)
	viper.SetDefault("EXPORT_FORMAT", "mp4")
	viper.SetDefault("FRAME_QUEUE_DEPTH", 8)
	viper.SetDefault("LUT_SIZE", 33)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration", "config", cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
