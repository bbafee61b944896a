package catalog

import (
	"fmt"
	"strings"

	"github.com/agentstation/hangar/pkg/errors"
)

// Kind is the kind of a canonical item.
type Kind string

// Item kinds, in display order.
const (
	KindShip    Kind = "ship"
	KindPilot   Kind = "pilot"
	KindUpgrade Kind = "upgrade"
)

// Kinds returns every item kind in display order.
func Kinds() []Kind {
	return []Kind{KindShip, KindPilot, KindUpgrade}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", &errors.ValidationError{
			Field:   "kind",
			Value:   s,
			Message: fmt.Sprintf("unknown item kind %q (want ship, pilot or upgrade)", s),
		}
	}
	return k, nil
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindShip, KindPilot, KindUpgrade:
		return true
	}
	return false
}

// Order is the sort position of the kind: ships, then pilots, then upgrades.
func (k Kind) Order() int {
	switch k {
	case KindShip:
		return 0
	case KindPilot:
		return 1
	case KindUpgrade:
		return 2
	default:
		return 3
	}
}

// Target returns the resolution target for items of this kind.
func (k Kind) Target() Target {
	return Target(k)
}

// Target is what a raw collection name is resolved against: a bundle or
// an item of one kind.
type Target string

// Resolution targets.
const (
	TargetBundle  Target = "bundle"
	TargetShip    Target = Target(KindShip)
	TargetPilot   Target = Target(KindPilot)
	TargetUpgrade Target = Target(KindUpgrade)
)

// Targets returns every target in display order.
func Targets() []Target {
	return []Target{TargetBundle, TargetShip, TargetPilot, TargetUpgrade}
}

// ParseTarget parses a target name case-insensitively.
func ParseTarget(s string) (Target, error) {
	t := Target(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &errors.ValidationError{
			Field:   "target",
			Value:   s,
			Message: fmt.Sprintf("unknown target %q (want bundle, ship, pilot or upgrade)", s),
		}
	}
	return t, nil
}

// String returns the string representation of a Target.
func (t Target) String() string {
	return string(t)
}

// IsValid reports whether t is a known target.
func (t Target) IsValid() bool {
	return t == TargetBundle || Kind(t).IsValid()
}

// Kind returns the item kind for item targets and false for bundles.
func (t Target) Kind() (Kind, bool) {
	k := Kind(t)
	return k, k.IsValid()
}

// Order is the sort position of the target: bundles first, then item kinds.
func (t Target) Order() int {
	if t == TargetBundle {
		return 0
	}
	return Kind(t).Order() + 1
}
