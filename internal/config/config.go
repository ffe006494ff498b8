package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigDirPerm is the permission for the config directory (0700 = rwx------)
	ConfigDirPerm os.FileMode = 0700
	// ConfigFilePerm is the permission for the config file (0600 = rw-------)
	// Restrictive permissions protect the API key from being read by other users
	ConfigFilePerm os.FileMode = 0600

	appDirName = ".redraft"
)

type Config struct {
	APIKey              string `mapstructure:"api_key"`
	Provider            string `mapstructure:"provider"`
	Model               string `mapstructure:"model"`
	Mode                string `mapstructure:"mode"`
	Language            string `mapstructure:"language"`
	TranslationLanguage string `mapstructure:"translation_language"`
	Theme               string `mapstructure:"theme"`
	ShowDiff            bool   `mapstructure:"show_diff"`
	AutoCopy            bool   `mapstructure:"auto_copy"`

	DebounceMs    int `mapstructure:"debounce_ms"`
	MinCheckChars int `mapstructure:"min_check_chars"`
	IndicatorCap  int `mapstructure:"indicator_cap"`

	RateLimitEnabled      bool `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int  `mapstructure:"rate_limit_requests"`
	RateLimitWindow       int  `mapstructure:"rate_limit_window_seconds"`
	RequestTimeoutSeconds int  `mapstructure:"request_timeout_seconds"`
}

// Dir returns the application config directory (~/.redraft).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}

func setDefaults() {
	viper.SetDefault("provider", "openai")
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("mode", "casual")
	viper.SetDefault("language", "english")
	viper.SetDefault("translation_language", "")
	viper.SetDefault("theme", "dark")
	viper.SetDefault("show_diff", true)
	viper.SetDefault("auto_copy", true)
	viper.SetDefault("debounce_ms", 1500)
	viper.SetDefault("min_check_chars", 5)
	viper.SetDefault("indicator_cap", 9)
	viper.SetDefault("rate_limit_enabled", true)
	viper.SetDefault("rate_limit_requests", 60)        // 60 requests
	viper.SetDefault("rate_limit_window_seconds", 60)  // per minute
	viper.SetDefault("request_timeout_seconds", 30)
}

func Load() (*Config, error) {
	configPath, err := Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
			config := &Config{}
			if err := viper.Unmarshal(config); err != nil {
				return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func Save(cfg *Config) error {
	configPath, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("api_key", cfg.APIKey)
	viper.Set("provider", cfg.Provider)
	viper.Set("model", cfg.Model)
	viper.Set("mode", cfg.Mode)
	viper.Set("language", cfg.Language)
	viper.Set("translation_language", cfg.TranslationLanguage)
	viper.Set("theme", cfg.Theme)
	viper.Set("show_diff", cfg.ShowDiff)
	viper.Set("auto_copy", cfg.AutoCopy)
	viper.Set("debounce_ms", cfg.DebounceMs)
	viper.Set("min_check_chars", cfg.MinCheckChars)
	viper.Set("indicator_cap", cfg.IndicatorCap)
	viper.Set("rate_limit_enabled", cfg.RateLimitEnabled)
	viper.Set("rate_limit_requests", cfg.RateLimitRequests)
	viper.Set("rate_limit_window_seconds", cfg.RateLimitWindow)
	viper.Set("request_timeout_seconds", cfg.RequestTimeoutSeconds)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Restrictive permissions protect the API key
	if err := os.Chmod(configFile, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}

	key = strings.TrimSpace(key)
	if strings.ContainsAny(key, " \t\n\r") {
		return fmt.Errorf("config key contains invalid characters")
	}

	configPath, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	// Ignore error if the file doesn't exist yet
	_ = viper.ReadInConfig()

	viper.Set(key, value)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		if err := viper.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	if err := os.Chmod(configFile, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func Get(key string) interface{} {
	if key == "" {
		return nil
	}

	configPath, err := Dir()
	if err != nil {
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	_ = viper.ReadInConfig() // Ignore error if config doesn't exist
	return viper.Get(key)
}
