package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/pkg/schedulerapi"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "SCHEDULER"
	homeFolder = ".scheduler"
)

type Config struct {
	Client schedulerapi.Config `mapstructure:"client"`
	Log    Log                 `mapstructure:"log"`
	Server Server              `mapstructure:"server"`
	Watch  Watch               `mapstructure:"watch"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Server configures the development API. ClaimInterval spaces out gateway
// claims; zero hands out work as fast as it is polled.
type Server struct {
	Port          string        `mapstructure:"port"`
	ClaimInterval time.Duration `mapstructure:"claim_interval"`
}

type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

var defaults = map[string]any{
	"client.base_url":       "http://127.0.0.1:8000",
	"client.timeout":        10 * time.Second,
	"client.rate_limit":     0.0,
	"client.rate_burst":     1,
	"log.level":             "warn",
	"server.port":           ":8000",
	"server.claim_interval": time.Duration(0),
	"watch.interval":        5 * time.Second,
}

// Load reads config.yml from ./config or $HOME/.scheduler. A missing file
// is not an error; defaults and SCHEDULER_* variables still apply.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads path, or searches like Load when path is empty.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath("./config")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, homeFolder))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
