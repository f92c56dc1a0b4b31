package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/logger"
)

// Config holds the client configuration. Values come from, in increasing
// precedence: defaults, config.yaml, .env, EATHMOVER_* environment variables.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Poll    PollConfig    `mapstructure:"poll"`
	Arrival ArrivalConfig `mapstructure:"arrival"`
	Store   StoreConfig   `mapstructure:"store"`
	Debug   bool          `mapstructure:"debug"`

	// ConfigDir is where config.yaml, logs and the default database live.
	ConfigDir string `mapstructure:"-"`
}

type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ExtendedTimeout time.Duration `mapstructure:"extended_timeout"`
	RatePerSecond   float64       `mapstructure:"rate_per_second"`
	Burst           int           `mapstructure:"burst"`
}

type PollConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	FastInterval time.Duration `mapstructure:"fast_interval"`
}

type ArrivalConfig struct {
	Default time.Duration `mapstructure:"default"`
}

type StoreConfig struct {
	// Path is a SQLite file path or a postgres:// connection string.
	Path string `mapstructure:"path"`
}

type Options struct {
	// ConfigFile overrides the config.yaml lookup.
	ConfigFile string
	// ConfigDir overrides the default ~/.config/eathmover directory.
	ConfigDir string
	// EnvFile is loaded with godotenv when present. Defaults to ".env".
	EnvFile string
}

// Load reads configuration according to opts. A missing config file or
// .env file is not an error.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Debug(".env file not loaded", "path", envFile, "error", err)
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = ExpandHome(constants.DefaultConfigDir)
	}

	v := viper.New()
	setDefaults(v, configDir)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType(constants.DefaultConfigFormat)
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(opts.ConfigFile != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.Debug("No config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigDir = configDir
	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	if !strings.HasSuffix(cfg.API.BaseURL, "/") {
		cfg.API.BaseURL += "/"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL:         constants.DefaultBaseURL,
			Timeout:         constants.DefaultTimeout,
			ExtendedTimeout: constants.ExtendedTimeout,
			RatePerSecond:   constants.DefaultRatePerSec,
			Burst:           constants.DefaultRatePerSec,
		},
		Poll: PollConfig{
			Interval:     constants.DefaultPollInterval,
			FastInterval: constants.FastPollInterval,
		},
		Arrival:   ArrivalConfig{Default: constants.DefaultArrivalCountdown},
		Store:     StoreConfig{Path: ExpandHome(constants.DefaultStorePath)},
		ConfigDir: ExpandHome(constants.DefaultConfigDir),
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" || c.API.BaseURL == "/" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.RatePerSecond <= 0 {
		return fmt.Errorf("api.rate_per_second must be positive, got %v", c.API.RatePerSecond)
	}
	if c.Poll.Interval <= 0 || c.Poll.FastInterval <= 0 {
		return errors.New("poll intervals must be positive")
	}
	if c.Arrival.Default <= 0 {
		return errors.New("arrival.default must be positive")
	}
	return nil
}

// IsPostgres reports whether the store path is a PostgreSQL connection string.
func (s StoreConfig) IsPostgres() bool {
	return strings.HasPrefix(s.Path, "postgres://") || strings.HasPrefix(s.Path, "postgresql://")
}

func setDefaults(v *viper.Viper, configDir string) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.extended_timeout", d.API.ExtendedTimeout)
	v.SetDefault("api.rate_per_second", d.API.RatePerSecond)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("poll.interval", d.Poll.Interval)
	v.SetDefault("poll.fast_interval", d.Poll.FastInterval)
	v.SetDefault("arrival.default", d.Arrival.Default)
	v.SetDefault("store.path", filepath.Join(configDir, constants.AppName+".db"))
	v.SetDefault("debug", false)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
