// Package application provides test doubles for cmd/application.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/reference"
)

// Mock provides a mock implementation of application.Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value, except
// Aggregator which falls back to an aggregator over Reference().
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ReferenceFunc: func() (*reference.Data, error) {
//	        return data, nil
//	    },
//	}
//	cmd := resolve.NewCommand(mock)
type Mock struct {
	ReferenceFunc    func() (*reference.Data, error)
	AggregatorFunc   func() (*inventory.Aggregator, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Reference returns reference data using the mock function or nil.
func (m *Mock) Reference() (*reference.Data, error) {
	if m.ReferenceFunc != nil {
		return m.ReferenceFunc()
	}
	return nil, nil
}

// Aggregator returns an aggregator using the mock function, or one built
// from Reference().
func (m *Mock) Aggregator() (*inventory.Aggregator, error) {
	if m.AggregatorFunc != nil {
		return m.AggregatorFunc()
	}
	data, err := m.Reference()
	if err != nil || data == nil {
		return nil, err
	}
	return inventory.NewAggregator(data.Store, data.Manifest, data.Resolver, inventory.WithLogger(m.Logger())), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ application.Application = (*Mock)(nil)
