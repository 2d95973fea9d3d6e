package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "EXCHANGE"

	defaultLogLevel    = "info"
	defaultLogFormat   = "json"
	defaultDBBackend   = "goleveldb"
	defaultMetricsAddr = ":26660"
)

// Config is the node configuration read from <home>/config/app.toml, the
// environment (EXCHANGE_ prefix) and command flags, in increasing priority.
type Config struct {
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	DBBackend string        `mapstructure:"db_backend"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig controls the Prometheus endpoint of serve-metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		DBBackend: defaultDBBackend,
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    defaultMetricsAddr,
		},
	}
}

func configPath(home string) string {
	return filepath.Join(home, "config", "app.toml")
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(configPath(home))

	def := DefaultConfig()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("db_backend", def.DBBackend)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.addr", def.Metrics.Addr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration of home. A missing app.toml is not an
// error; defaults apply.
func LoadConfig(home string, flags *pflag.FlagSet) (Config, error) {
	v := newViper(home)

	if _, err := os.Stat(configPath(home)); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", configPath(home), err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"log_level":  flagLogLevel,
			"log_format": flagLogFormat,
		} {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// WriteConfig writes cfg to <home>/config/app.toml.
func WriteConfig(home string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath(home)), 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)
	v.Set("db_backend", cfg.DBBackend)
	v.Set("metrics.enabled", cfg.Metrics.Enabled)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	return v.WriteConfigAs(configPath(home))
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "json", "plain":
	default:
		return fmt.Errorf("invalid log_format %q, want json or plain", c.LogFormat)
	}
	if c.DBBackend == "" {
		return fmt.Errorf("db_backend cannot be empty")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr cannot be empty when metrics are enabled")
	}
	return nil
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg Config, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), nil
}
