package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Reference data
	DataDir       string // Reference data directory; empty means the embedded snapshot
	XWingData2Dir string // Optional xwing-data2 checkout for items

	// Inventory defaults
	Export  string
	Strict  bool
	Workers int

	// Server defaults
	ServerHost     string
	ServerPort     int
	ServerCacheTTL time.Duration

	// Logging configuration
	LogFormat string
	LogOutput string

	levelFlag string // --log-level, which outranks -v and -q
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (HANGAR_*)
// 3. .env files
// 4. Config file (~/.hangar.yaml or ./.hangar.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// LoadConfigFile is LoadConfig with an explicit config file.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env files first (before env binding)
	loadEnvFiles()

	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{Component: "config", Message: "reading " + configFile, Err: err}
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &errors.ConfigError{Component: "config", Message: "reading config file", Err: err}
			}
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		DataDir:       v.GetString("data_dir"),
		XWingData2Dir: v.GetString("xwing_data2_dir"),

		Export:  v.GetString("export"),
		Strict:  v.GetBool("strict"),
		Workers: v.GetInt("workers"),

		ServerHost:     v.GetString("server.host"),
		ServerPort:     v.GetInt("server.port"),
		ServerCacheTTL: v.GetDuration("server.cache_ttl"),

		Format:    v.GetString("format"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cache_ttl", constants.CacheTTL)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	// LOG_LEVEL and friends are shared with pkg/logging.
	_ = v.BindEnv("log.level", "LOG_LEVEL", constants.EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT", constants.EnvPrefix+"_LOG_FORMAT")
	_ = v.BindEnv("log.output", "LOG_OUTPUT", constants.EnvPrefix+"_LOG_OUTPUT")
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > constants.MaxWorkers {
		return &errors.ConfigError{Component: "workers", Message: "must be between 1 and 64"}
	}
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return &errors.ConfigError{Component: "server.port", Message: "port out of range"}
	}
	if c.ServerCacheTTL < 0 {
		return &errors.ConfigError{Component: "server.cache_ttl", Message: "must not be negative"}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	c.levelFlag = logLevel
}

// loadEnvFiles loads environment variables from .env files.
// .env.local does not override values set by .env or the environment.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
