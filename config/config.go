package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "EMPLOYEE_BOT"

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Workers  WorkersConfig  `mapstructure:"workers"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	// AllowedUsers restricts the bot to these chat ids. Empty allows everyone.
	AllowedUsers []int64      `mapstructure:"allowed_users"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite3 sqlite"`
	Path   string `mapstructure:"path" validate:"required"`
	// Watch refreshes open employee lists when another process writes the
	// database.
	Watch bool `mapstructure:"watch"`
}

type WorkersConfig struct {
	Count int `mapstructure:"count" validate:"min=1,max=64"`
	Queue int `mapstructure:"queue" validate:"min=0"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// LoadConfig reads .env, the optional config file and EMPLOYEE_BOT_*
// variables, in increasing priority. path overrides EMPLOYEE_BOT_CONFIG.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.allowed_users", []int64{})
	v.SetDefault("telegram.poll_timeout", 10*time.Second)
	v.SetDefault("storage.driver", "sqlite3")
	v.SetDefault("storage.path", "employees.db")
	v.SetDefault("storage.watch", true)
	v.SetDefault("workers.count", 4)
	v.SetDefault("workers.queue", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("employee-bot")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// RequireToken fails with ErrNoToken when no bot token is configured.
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return ErrNoToken{}
	}
	return nil
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN is not set"
}
