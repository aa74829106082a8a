// Package config assembles runtime settings from defaults, an optional YAML
// file, dotenv files and the process environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"control-agent/internal/infrastructure/env"
)

type Config struct {
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type TerminalConfig struct {
	WorkingDir     string        `mapstructure:"working_dir"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	NoSandbox         bool          `mapstructure:"no_sandbox"`
	FindTimeout       time.Duration `mapstructure:"find_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load builds the configuration. Precedence, lowest to highest: defaults,
// config file, environment (AGENT_* plus OPENAI_API_KEY).
func Load(cfgFile string) (*Config, error) {
	env.Load()

	v := viper.New()

	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("terminal.working_dir", "")
	v.SetDefault("terminal.command_timeout", 60*time.Second)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.find_timeout", 10*time.Second)
	v.SetDefault("browser.navigation_timeout", 30*time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetEnvPrefix("AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY", "AGENT_OPENAI_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
