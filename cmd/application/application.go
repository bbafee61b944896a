// Package application provides the application interface for hangar commands.
//
// The Application interface is the contract between the application layer and
// command implementations. Commands and the HTTP server accept it instead of the
// concrete App type so they can be tested with a mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            data, err := app.Reference()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use data.Resolver, data.Store
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ReferenceFunc: func() (*reference.Data, error) {
//	        return testData, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/reference"
)

// Application provides what commands need from the running program.
// The App struct from cmd/hangar/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Reference returns the loaded reference data. It is loaded once, on
	// first use, from the configured directory or the embedded snapshot.
	// The returned data is read-only and may be shared.
	Reference() (*reference.Data, error)

	// Aggregator returns an aggregator bound to Reference().
	Aggregator() (*inventory.Aggregator, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
