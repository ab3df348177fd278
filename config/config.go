package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pb33f/harplay/motor"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HARPLAY_AUTO_PROFILE.
const EnvPrefix = "HARPLAY"

// Config is the resolved configuration of a harplay invocation
type Config struct {
	Input                string      `mapstructure:"input"`
	Output               string      `mapstructure:"output"`
	Format               string      `mapstructure:"format"`
	AutoProfile          bool        `mapstructure:"auto_profile"`
	AutoProfileThreshold float64     `mapstructure:"auto_profile_threshold"`
	Login                LoginConfig `mapstructure:"login"`
	Token                TokenConfig `mapstructure:"token"`
	Exclude              []string    `mapstructure:"exclude"`
	Log                  LogConfig   `mapstructure:"log"`
}

// LoginConfig locates the authentication request in an archive
type LoginConfig struct {
	Path          string `mapstructure:"path"`
	UserParam     string `mapstructure:"user_param"`
	PasswordParam string `mapstructure:"password_param"`
}

// TokenConfig names the anti-forgery token header and form parameter
type TokenConfig struct {
	Header string `mapstructure:"header"`
	Param  string `mapstructure:"param"`
}

// LogConfig controls the optional rotating log file
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults registers every recognised key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", "rails")
	v.SetDefault("auto_profile", false)
	v.SetDefault("auto_profile_threshold", motor.DefaultProfileThreshold)

	v.SetDefault("login.path", motor.DefaultLoginPath)
	v.SetDefault("login.user_param", motor.DefaultUserParam)
	v.SetDefault("login.password_param", motor.DefaultPasswordParam)

	v.SetDefault("token.header", motor.DefaultTokenHeader)
	v.SetDefault("token.param", motor.DefaultTokenParam)

	v.SetDefault("exclude", []string{})

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}

// LoadConfig loads configuration from defaults, an optional YAML file and the
// environment. Flags bound to v take precedence over all of them.
// If v is nil, a new viper instance will be created
func LoadConfig(configPath string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("harplay")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.harplay")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if c.AutoProfileThreshold <= 0 {
		return fmt.Errorf("auto_profile_threshold must be positive, got %v", c.AutoProfileThreshold)
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	return nil
}

// SessionOptions converts the configuration into build options.
func (c *Config) SessionOptions() motor.SessionOptions {
	return motor.SessionOptions{
		Login: motor.LoginOptions{
			Path:          c.Login.Path,
			UserParam:     c.Login.UserParam,
			PasswordParam: c.Login.PasswordParam,
		},
		TokenHeader:      c.Token.Header,
		TokenParam:       c.Token.Param,
		AutoProfile:      c.AutoProfile,
		ProfileThreshold: c.AutoProfileThreshold,
	}
}

// Rules returns the default exclusions followed by any configured extras.
func (c *Config) Rules() (motor.RuleSet, error) {
	extra := make([]motor.Rule, 0, len(c.Exclude))
	for _, value := range c.Exclude {
		rule, err := motor.ParseRule(value)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude rule %q: %w", value, err)
		}
		extra = append(extra, rule)
	}
	return motor.DefaultExclusions().With(extra...), nil
}
