// Package app provides the configuration loading and wiring of ephemera.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/spf13/viper"

	"github.com/bnema/ephemera/internal/adapters/out/logwriter"
	"github.com/bnema/ephemera/internal/adapters/out/telemetry"
	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/lifecycle"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

// EnvPrefix prefixes every environment override, e.g. EPHEMERA_WAIT_TIMEOUT.
const EnvPrefix = "EPHEMERA"

// Config holds the application configuration.
type Config struct {
	Docker struct {
		Host        string `mapstructure:"host"`         // empty uses DOCKER_HOST
		PublishHost string `mapstructure:"publish_host"` // address published ports are reached on
	} `mapstructure:"docker"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"file"`
		Containers logwriter.Config `mapstructure:"containers"`
	} `mapstructure:"logging"`

	Session struct {
		ID string `mapstructure:"id"` // empty generates one per process
	} `mapstructure:"session"`

	Wait struct {
		Timeout      time.Duration `mapstructure:"timeout"`
		PollInterval time.Duration `mapstructure:"poll_interval"`
		MaxInterval  time.Duration `mapstructure:"max_interval"`
		Multiplier   float64       `mapstructure:"multiplier"`
	} `mapstructure:"wait"`

	Stop struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"stop"`

	Teardown struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"teardown"`

	Pull struct {
		Policy string `mapstructure:"policy"`
	} `mapstructure:"pull"`

	Ports struct {
		BindAddress string `mapstructure:"bind_address"`
	} `mapstructure:"ports"`

	Registry struct {
		Server   string `mapstructure:"server"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"registry"`

	Events struct {
		BufferSize int `mapstructure:"buffer_size"`
	} `mapstructure:"events"`

	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// WaitPolicy returns the engine-wide readiness defaults.
func (c Config) WaitPolicy() domain.WaitPolicy {
	return domain.WaitPolicy{
		Timeout:      c.Wait.Timeout,
		PollInterval: c.Wait.PollInterval,
		MaxInterval:  c.Wait.MaxInterval,
		Multiplier:   c.Wait.Multiplier,
	}.Merge(wait.DefaultPolicy)
}

// PullPolicy returns the default pull policy for specs that set none.
func (c Config) PullPolicy() (domain.PullPolicy, error) {
	return domain.ParsePullPolicy(c.Pull.Policy)
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.PullPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("pull.policy: %w", err))
	}
	if c.Wait.Multiplier != 0 && c.Wait.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("wait.multiplier: must be >= 1, got %v", c.Wait.Multiplier))
	}
	if c.Wait.MaxInterval > 0 && c.Wait.PollInterval > c.Wait.MaxInterval {
		errs = append(errs, fmt.Errorf("wait.poll_interval %s exceeds wait.max_interval %s", c.Wait.PollInterval, c.Wait.MaxInterval))
	}
	if c.Logging.Containers.Dir == "" {
		errs = append(errs, errors.New("logging.containers.dir: must not be empty"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
}

// LoadConfig reads defaults, the optional config file and EPHEMERA_*
// environment overrides, in increasing priority.
func LoadConfig(configPath string) (Config, error) {
	_, cfg, err := initConfig(configPath)
	return cfg, err
}

// initConfig loads configuration from file.
func initConfig(configPath string) (*viper.Viper, Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return nil, Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Config{}, err
	}

	return v, cfg, nil
}

// loadConfig loads configuration from file and sets defaults.
func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault("docker.host", "")
	v.SetDefault("docker.publish_host", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
	v.SetDefault("logging.containers.dir", filepath.Join(DefaultStateDir(), "containers"))
	v.SetDefault("logging.containers.max_size", 50)
	v.SetDefault("logging.containers.max_backups", 3)
	v.SetDefault("logging.containers.max_age", 7)
	v.SetDefault("logging.containers.split_streams", false)
	v.SetDefault("session.id", "")
	v.SetDefault("wait.timeout", wait.DefaultPolicy.Timeout)
	v.SetDefault("wait.poll_interval", wait.DefaultPolicy.PollInterval)
	v.SetDefault("wait.max_interval", wait.DefaultPolicy.MaxInterval)
	v.SetDefault("wait.multiplier", wait.DefaultPolicy.Multiplier)
	v.SetDefault("stop.timeout", lifecycle.DefaultStopTimeout)
	v.SetDefault("teardown.timeout", lifecycle.DefaultTeardownTimeout)
	v.SetDefault("pull.policy", "missing")
	v.SetDefault("ports.bind_address", "")
	v.SetDefault("registry.server", "")
	v.SetDefault("registry.username", "")
	v.SetDefault("registry.password", "")
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.auth_token", "")
	v.SetDefault("telemetry.traces", true)
	v.SetDefault("telemetry.metrics", true)
	v.SetDefault("telemetry.trace_sample_rate", 1.0)

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// ConfigureViper points v at configPath, or at ephemera.toml in the usual
// locations when configPath is empty.
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.SetConfigName("ephemera")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "ephemera"))
	}
	v.AddConfigPath("/etc/ephemera")
}

// DefaultStateDir is where ephemera keeps its own log files.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "ephemera")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "ephemera")
	}
	return filepath.Join(os.TempDir(), "ephemera")
}

// initLogger initializes the zerowrap logger.
func initLogger(cfg Config) (zerowrap.Logger, func(), error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if !cfg.Logging.File.Enabled {
		return zerowrap.New(logConfig), func() {}, nil
	}

	logPath := cfg.Logging.File.Path
	if logPath == "" {
		logPath = filepath.Join(DefaultStateDir(), "ephemera.log")
	}

	log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
		Enabled:    true,
		Path:       logPath,
		MaxSize:    cfg.Logging.File.MaxSize,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAge:     cfg.Logging.File.MaxAge,
		Compress:   true,
	})
	if err != nil {
		return zerowrap.Default(), func() {}, fmt.Errorf("failed to create logger with file: %w", err)
	}
	return log, cleanup, nil
}
