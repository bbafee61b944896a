// Package serve provides the serve command.
package serve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/server"
)

// Settings are the serve defaults taken from configuration. Flags the
// user sets explicitly win over them.
type Settings struct {
	Host     string
	Port     int
	CacheTTL time.Duration
}

// NewCommand creates the serve command.
func NewCommand(app application.Application, settings func() Settings) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the inventory REST API",
		Long: `Start an HTTP server exposing inventory aggregation, name resolution and
the reference data.

Endpoints (under --prefix):
  POST /inventory          aggregate a collection record (YAML, JSON or YASB)
  POST /resolve            resolve one name
  GET  /items, /items/{id} list and show items
  GET  /bundles, /bundles/{sku}
  GET  /aliases            list alias entries
  GET  /reference          reference data version and counts
  GET  /stats              cache and runtime statistics
  GET  /health, /ready     probes
  GET  /openapi.json       OpenAPI document

Inventory responses are cached by request body for --cache-ttl. The
server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Start on localhost:8080
  hangar serve

  # Listen on all interfaces with CORS for one origin
  hangar serve --host 0.0.0.0 --cors-origins https://squads.example.com

  # Disable rate limiting and keep cached results for an hour
  hangar serve --rate-limit 0 --cache-ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, settings)
			if err != nil {
				return err
			}

			app.Logger().Info().
				Str("addr", cfg.Addr()).
				Str("prefix", cfg.PathPrefix).
				Bool("cors", cfg.CORSEnabled).
				Int("rate_limit", cfg.RateLimit).
				Dur("cache_ttl", cfg.CacheTTL).
				Msg("Starting API server")

			srv, err := server.New(app, cfg)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	// Server configuration flags
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().IntP("port", "p", defaults.Port, "Server port")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	// CORS flags
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Performance flags
	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "How long inventory results are cached")
	cmd.Flags().Int64("max-body-size", defaults.MaxBodySize, "Largest accepted request body in bytes")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// buildConfig merges configuration settings and flags into a server config.
func buildConfig(cmd *cobra.Command, settings func() Settings) (server.Config, error) {
	flags := cmd.Flags()
	cfg := server.DefaultConfig()

	if settings != nil {
		s := settings()
		if s.Host != "" {
			cfg.Host = s.Host
		}
		if s.Port != 0 {
			cfg.Port = s.Port
		}
		if s.CacheTTL != 0 {
			cfg.CacheTTL = s.CacheTTL
		}
	}

	if flags.Changed("host") {
		cfg.Host = mustGetString(cmd, "host")
	}
	if flags.Changed("port") {
		cfg.Port = mustGetInt(cmd, "port")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL = mustGetDuration(cmd, "cache-ttl")
	}

	cfg.PathPrefix = mustGetString(cmd, "prefix")
	cfg.CORSEnabled = mustGetBool(cmd, "cors")
	cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
	cfg.RateLimit = mustGetInt(cmd, "rate-limit")
	cfg.MaxBodySize = mustGetInt64(cmd, "max-body-size")
	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")

	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}
	return cfg, validate(cfg)
}

func validate(cfg server.Config) error {
	switch {
	case cfg.Port < 0 || cfg.Port > 65535:
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", cfg.Port)
	case cfg.RateLimit < 0:
		return fmt.Errorf("invalid rate limit %d: must be >= 0", cfg.RateLimit)
	case cfg.CacheTTL < 0:
		return fmt.Errorf("invalid cache TTL %s: must be >= 0", cfg.CacheTTL)
	case cfg.MaxBodySize <= 0:
		return fmt.Errorf("invalid max body size %d: must be > 0", cfg.MaxBodySize)
	case cfg.PathPrefix != "" && cfg.PathPrefix[0] != '/':
		return fmt.Errorf("invalid prefix %q: must start with /", cfg.PathPrefix)
	}
	return nil
}

// Flags are registered in NewCommand, so lookups can only fail on a typo.

func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}

func mustGetInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}

func mustGetInt64(cmd *cobra.Command, name string) int64 {
	v, err := cmd.Flags().GetInt64(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}
