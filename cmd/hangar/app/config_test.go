package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// LogLevel may be empty; the logger applies its own precedence.
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.Workers != constants.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", config.Workers, constants.DefaultWorkers)
	}
	if config.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", config.ServerPort)
	}
	if config.ServerCacheTTL != constants.CacheTTL {
		t.Errorf("ServerCacheTTL = %s, want %s", config.ServerCacheTTL, constants.CacheTTL)
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("HANGAR_WORKERS", "4")
	t.Setenv("HANGAR_STRICT", "true")
	t.Setenv("HANGAR_EXPORT", "inventory.xlsx")
	t.Setenv("HANGAR_SERVER_PORT", "9090")
	t.Setenv("HANGAR_SERVER_CACHE_TTL", "90s")
	t.Setenv("HANGAR_DATA_DIR", "/srv/hangar")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Workers != 4 {
		t.Errorf("Workers = %d, want 4", config.Workers)
	}
	if !config.Strict {
		t.Error("HANGAR_STRICT not loaded")
	}
	if config.Export != "inventory.xlsx" {
		t.Errorf("Export = %s, want inventory.xlsx", config.Export)
	}
	if config.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", config.ServerPort)
	}
	if config.ServerCacheTTL != 90*time.Second {
		t.Errorf("ServerCacheTTL = %s, want 1m30s", config.ServerCacheTTL)
	}
	if config.DataDir != "/srv/hangar" {
		t.Errorf("DataDir = %s, want /srv/hangar", config.DataDir)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
}

// TestConfig_PrefixedLogLevel verifies HANGAR_LOG_LEVEL is honored.
func TestConfig_PrefixedLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HANGAR_LOG_LEVEL", "warn")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", config.LogLevel)
	}
}

// TestConfig_InvalidWorkers verifies validation runs on load.
func TestConfig_InvalidWorkers(t *testing.T) {
	for _, workers := range []string{"0", "65"} {
		t.Run(workers, func(t *testing.T) {
			t.Setenv("HANGAR_WORKERS", workers)
			_, err := LoadConfig()
			if err == nil {
				t.Fatal("LoadConfig() accepted an out-of-range worker count")
			}
			var cfgErr *errors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error %v is not a ConfigError", err)
			}
		})
	}
}

// TestLoadConfigFile verifies an explicit config file is read and that the
// environment still wins over it.
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hangar.yaml")
	content := `data_dir: ./reference
workers: 2
strict: true
format: yaml
server:
  host: 0.0.0.0
  port: 3000
  cache_ttl: 10m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HANGAR_SERVER_PORT", "3001")

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.DataDir != "./reference" {
		t.Errorf("DataDir = %s, want ./reference", config.DataDir)
	}
	if config.Workers != 2 || !config.Strict || config.Format != "yaml" {
		t.Errorf("inventory settings not loaded: %+v", config)
	}
	if config.ServerHost != "0.0.0.0" {
		t.Errorf("ServerHost = %s, want 0.0.0.0", config.ServerHost)
	}
	if config.ServerPort != 3001 {
		t.Errorf("ServerPort = %d, want 3001 from the environment", config.ServerPort)
	}
	if config.ServerCacheTTL != 10*time.Minute {
		t.Errorf("ServerCacheTTL = %s, want 10m", config.ServerCacheTTL)
	}
}

// TestLoadConfigFile_Missing verifies a named but missing file is an error.
func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfigFile() succeeded for a missing file")
	}
}

// TestConfig_UpdateFromFlags verifies flags overlay the loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "error"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, an empty flag must keep yaml", config.Format)
	}

	config.UpdateFromFlags(false, false, false, "json", "trace")
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.levelFlag != "trace" {
		t.Errorf("levelFlag = %s, want trace", config.levelFlag)
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, the environment value must be kept", config.LogLevel)
	}
}

// TestConfig_Validate covers each rejected field.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Workers: 4, ServerPort: 8080, ServerCacheTTL: time.Minute}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"port zero picks a free port", func(c *Config) { c.ServerPort = 0 }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, false},
		{"too many workers", func(c *Config) { c.Workers = constants.MaxWorkers + 1 }, false},
		{"negative port", func(c *Config) { c.ServerPort = -1 }, false},
		{"port too large", func(c *Config) { c.ServerPort = 70000 }, false},
		{"negative ttl", func(c *Config) { c.ServerCacheTTL = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
