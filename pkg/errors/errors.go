// Package errors holds the typed errors shared by hangar's packages.
// Callers branch on them with the Is* helpers or errors.As; the HTTP
// layer maps each type to a status code.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New, Is and As are the standard library functions, re-exported so
// callers need only this package.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinels matched by the typed errors below.
var (
	// ErrNotFound: an item or bundle id is not in the reference data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput: a collection entry, flag or request field was rejected.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInconsistentData: reference data contradicts itself.
	ErrInconsistentData = errors.New("inconsistent reference data")
)

// NotFoundError reports a lookup by canonical id that missed.
type NotFoundError struct {
	Resource string // "item" or "bundle"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError rejects one value. Field names the offending entry,
// e.g. `bundles["Core Set"]`.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// LoadError represents reference data that cannot be used because it is
// internally inconsistent (dangling references, duplicate ids, conflicting
// aliases). It is always fatal for a run.
type LoadError struct {
	Source   string   // "items", "bundles", "aliases", ...
	Problems []string // one entry per inconsistency found
}

func (e *LoadError) Error() string {
	switch len(e.Problems) {
	case 0:
		return fmt.Sprintf("invalid %s reference data", e.Source)
	case 1:
		return fmt.Sprintf("invalid %s reference data: %s", e.Source, e.Problems[0])
	default:
		return fmt.Sprintf("invalid %s reference data (%d problems): %s",
			e.Source, len(e.Problems), strings.Join(e.Problems, "; "))
	}
}

// Is matches ErrInconsistentData.
func (e *LoadError) Is(target error) bool {
	return target == ErrInconsistentData
}

// NewLoadError returns a LoadError listing every problem found in source.
func NewLoadError(source string, problems ...string) *LoadError {
	return &LoadError{Source: source, Problems: problems}
}

// ConfigError reports a bad setting from flags, env or the config file.
type ConfigError struct {
	Component string // config key, e.g. "server.port"
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError reports a collection or reference file that could not be decoded.
type ParseError struct {
	Format  string // "json", "yaml", "toml", "yasb"
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError returns a ParseError with a message that may differ from
// err's own, such as a formatted yaml error with source context.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError reports a failed file operation.
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ResourceError reports a failed step on a whole resource: loading the
// reference data, writing an export, migrating the database.
type ResourceError struct {
	Operation string // "load", "export", "migrate"
	Resource  string // "reference data", "database", "xlsx"
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsLoadError reports whether err is caused by inconsistent reference data.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrInconsistentData)
}

// The Wrap helpers return nil for a nil err so they can wrap a call's
// result directly.

// WrapValidation turns err into a ValidationError for field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapResource wraps err as a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse wraps err as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
