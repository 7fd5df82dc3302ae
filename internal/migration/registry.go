// Package migration upgrades vision documents from older schema versions to the
// current one by chaining single-step transforms.
package migration

import (
	"fmt"

	"github.com/plaid-labs/plaid-vision/internal/vision"
)

// TransitionArrow separates the versions in a transition label.
const TransitionArrow = " → "

// Transform turns a document at one version into the next. It receives its own
// deep copy and must set meta.version to the migration's To version.
type Transform func(doc vision.Document) vision.Document

// Migration is a single registered step.
type Migration struct {
	From        string
	To          string
	Description string
	Apply       Transform
}

// Transition returns the "from → to" label recorded for this step.
func (m Migration) Transition() string {
	return m.From + TransitionArrow + m.To
}

// Registry maps a schema version to the migration that upgrades it. It is
// immutable after construction.
type Registry struct {
	target     string
	byFrom     map[string]Migration
	migrations []Migration
}

// NewRegistry builds a registry whose chains end at target. It rejects empty
// versions, steps that map a version to itself, steps starting at target and
// duplicate From versions.
func NewRegistry(target string, migrations ...Migration) (*Registry, error) {
	if target == "" {
		return nil, fmt.Errorf("target version is empty")
	}

	r := &Registry{
		target: target,
		byFrom: make(map[string]Migration, len(migrations)),
	}
	for _, m := range migrations {
		switch {
		case m.From == "" || m.To == "":
			return nil, fmt.Errorf("migration %q has an empty version", m.Transition())
		case m.From == m.To:
			return nil, fmt.Errorf("migration %q maps a version to itself", m.Transition())
		case m.From == target:
			return nil, fmt.Errorf("migration %q starts at the target version", m.Transition())
		case m.Apply == nil:
			return nil, fmt.Errorf("migration %q has no transform", m.Transition())
		}
		if existing, ok := r.byFrom[m.From]; ok {
			return nil, fmt.Errorf("duplicate migration from %q: %q and %q", m.From, existing.Transition(), m.Transition())
		}
		r.byFrom[m.From] = m
		r.migrations = append(r.migrations, m)
	}
	return r, nil
}

// Target returns the version every chain ends at.
func (r *Registry) Target() string {
	return r.target
}

// Lookup returns the migration registered for from.
func (r *Registry) Lookup(from string) (Migration, bool) {
	m, ok := r.byFrom[from]
	return m, ok
}

// Migrations returns the registered steps in registration order.
func (r *Registry) Migrations() []Migration {
	out := make([]Migration, len(r.migrations))
	copy(out, r.migrations)
	return out
}
