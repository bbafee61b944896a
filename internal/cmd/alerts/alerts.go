// Package alerts prints status lines and inventory diagnostics for the CLI.
package alerts

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agentstation/hangar/pkg/diagnostics"
)

// Alert represents a status notification.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// FromDiagnostic converts an inventory diagnostic to an alert. Candidates
// of an ambiguous name become details.
func FromDiagnostic(d diagnostics.Diagnostic) *Alert {
	level := LevelInfo
	if d.IsWarning() {
		level = LevelWarning
	}
	a := New(level, fmt.Sprintf("[%s] %s %q: %s", d.Reason, d.Subject, d.Raw, d.Message))
	for _, c := range d.Candidates {
		a.Details = append(a.Details, "candidate "+c)
	}
	return a
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteByte(' ')
	b.WriteString(a.Message)
	if a.Err != nil {
		fmt.Fprintf(&b, ": %v", a.Err)
	}
	return b.String()
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// MultiWriter creates a writer that writes to multiple writers.
func MultiWriter(writers ...Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		for _, w := range writers {
			if err := w.WriteAlert(alert); err != nil {
				return err
			}
		}
		return nil
	})
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo creates a Writer that writes plain lines to an io.Writer.
func NewWriterTo(w io.Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		_, err := fmt.Fprintln(w, alert.String())
		return err
	})
}

// WriteDiagnostics writes each diagnostic as an alert. Info diagnostics
// are skipped unless verbose is set.
func WriteDiagnostics(w Writer, ds []diagnostics.Diagnostic, verbose bool) error {
	for _, d := range ds {
		if !d.IsWarning() && !verbose {
			continue
		}
		if err := w.WriteAlert(FromDiagnostic(d)); err != nil {
			return err
		}
	}
	return nil
}
