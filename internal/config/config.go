package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Database DatabaseConfig `mapstructure:"database"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// GitHubConfig configures the profile data source. Without a token the REST
// API is used anonymously and pinned repositories are not fetched.
type GitHubConfig struct {
	Token             string        `mapstructure:"token"`
	BaseURL           string        `mapstructure:"base_url"`
	GraphQLURL        string        `mapstructure:"graphql_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	CheckReadme       bool          `mapstructure:"check_readme"`
	ReadmeConcurrency int           `mapstructure:"readme_concurrency"`
}

// DatabaseConfig configures analysis history and the async job queue
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type WorkerConfig struct {
	Count        int           `mapstructure:"count"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// MonitorConfig lists profiles that are re-analyzed on a fixed interval
type MonitorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Usernames []string      `mapstructure:"usernames"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewConfig returns a configuration populated with defaults only
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

// Load reads the yaml file at configPath (optional) and overlays environment
// variables prefixed with PROFILE_ANALYZER, e.g. PROFILE_ANALYZER_GITHUB_TOKEN.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("PROFILE_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")

	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("github.request_timeout", "30s")
	v.SetDefault("github.check_readme", false)
	v.SetDefault("github.readme_concurrency", 8)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "profile_analyzer")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.poll_interval", "1s")
	v.SetDefault("worker.max_attempts", 3)

	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval", "24h")
	v.SetDefault("monitor.usernames", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.GitHub.RequestTimeout <= 0 {
		return fmt.Errorf("github request timeout must be positive")
	}
	if c.GitHub.CheckReadme && c.GitHub.ReadmeConcurrency < 1 {
		return fmt.Errorf("invalid github readme concurrency: %d", c.GitHub.ReadmeConcurrency)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			return fmt.Errorf("database sslmode is required")
		}
		if c.Worker.Count < 1 {
			return fmt.Errorf("invalid worker count: %d", c.Worker.Count)
		}
	}

	if c.Monitor.Enabled {
		if !c.Database.Enabled {
			return fmt.Errorf("monitor requires the database to be enabled")
		}
		if c.Monitor.Interval <= 0 {
			return fmt.Errorf("monitor interval must be positive")
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q: must be json or console", c.Log.Format)
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// NewLogger builds the root logger described by the log section
func (l LogConfig) NewLogger(w io.Writer) zerolog.Logger {
	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
