// Package constants provides shared constants used throughout the hangar codebase.
// Timeouts, limits, file permissions and default paths live here so the CLI,
// the HTTP server and the exporters agree on them.
package constants

import "time"

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the server waits for in-flight requests
	ShutdownTimeout = 10 * time.Second

	// ReadTimeout is the HTTP server read timeout
	ReadTimeout = 10 * time.Second

	// WriteTimeout is the HTTP server write timeout
	WriteTimeout = 30 * time.Second

	// IdleTimeout is the HTTP server keep-alive idle timeout
	IdleTimeout = 120 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// DefaultWorkers is the number of collections aggregated concurrently
	DefaultWorkers = 4

	// MaxWorkers caps the --workers flag
	MaxWorkers = 64

	// MaxRequestBodySize bounds POSTed collections (1 MiB)
	MaxRequestBodySize = 1 << 20

	// MaxNameLength is the longest raw name accepted from a collection
	MaxNameLength = 256

	// MaxCandidates is how many candidates an ambiguous diagnostic lists
	MaxCandidates = 8

	// MaxCount is the largest count one collection entry may carry. It keeps
	// bundle expansion and summed totals far from integer overflow.
	MaxCount = 1_000_000
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached inventory responses
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Path constants
const (
	// DefaultConfigName is the config file name looked up in $HOME
	DefaultConfigName = ".hangar"

	// DefaultExportDir is where exports land when no directory is given
	DefaultExportDir = "."

	// EnvPrefix is the prefix for environment overrides (HANGAR_DATA_DIR, ...)
	EnvPrefix = "HANGAR"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated export filenames
	TimeFormatFilename = "20060102-150405"
)

// External resources
const (
	// XWingData2URL is where the community ship, pilot and upgrade data lives
	XWingData2URL = "https://github.com/guidokessels/xwing-data2"
)
