// Package hints provides actionable user guidance for CLI operations.
package hints

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/diagnostics"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// WithCommand adds a command to the hint.
func (h *Hint) WithCommand(command string) *Hint {
	h.Command = command
	return h
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	if h.Command == "" {
		return "hint: " + h.Message
	}
	return fmt.Sprintf("hint: %s\n   Run: %s", h.Message, h.Command)
}

// ForDiagnostics suggests how to follow up on an inventory run's
// diagnostics. The first diagnostic of each reason picks the example.
func ForDiagnostics(ds []diagnostics.Diagnostic) []*Hint {
	seen := make(map[diagnostics.Reason]bool)
	var out []*Hint
	for _, d := range ds {
		if seen[d.Reason] {
			continue
		}
		seen[d.Reason] = true

		switch d.Reason {
		case diagnostics.ReasonUnknownName:
			out = append(out, New("Search the reference data for the item or bundle you meant").
				WithCommand(searchCommand(d)))
		case diagnostics.ReasonAmbiguous:
			out = append(out, New("Ambiguous names need a canonical id in the collection").
				WithCommand(fmt.Sprintf("hangar resolve %s -t %s", quote(d.Raw), d.Subject)))
		case diagnostics.ReasonRetired:
			out = append(out, New("Retired names have no current equivalent; see the alias table").
				WithCommand(fmt.Sprintf("hangar list aliases -t %s --annotation retired", d.Subject)))
		}
	}
	return out
}

// Write prints hints to w, one block per hint.
func Write(w io.Writer, hs []*Hint) error {
	for _, h := range hs {
		if _, err := fmt.Fprintln(w, h.String()); err != nil {
			return err
		}
	}
	return nil
}

func searchCommand(d diagnostics.Diagnostic) string {
	if d.Subject == catalog.TargetBundle {
		return "hangar list bundles -s " + quote(d.Raw)
	}
	return fmt.Sprintf("hangar list items -k %s -s %s", d.Subject, quote(d.Raw))
}

func quote(s string) string {
	if strings.ContainsAny(s, " '\"") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
