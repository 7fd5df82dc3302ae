package migration

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plaid-labs/plaid-vision/internal/vision"
)

// TimestampLayout is the format written to meta.updatedAt after a migration.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// PathError reports a version with no registered migration.
type PathError struct {
	Version string
	Target  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("no migration registered for version %q (target version %q); add one to the migration registry", e.Version, e.Target)
}

// CycleError reports a chain that returns to a version it already visited.
type CycleError struct {
	Version string
	Path    []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("migration cycle detected at version %q", e.Version)
}

// Result is the outcome of Migrate. Document is set only on success.
type Result struct {
	Success            bool            `json:"success"`
	Document           vision.Document `json:"-"`
	AppliedTransitions []string        `json:"appliedTransitions"`
	Error              string          `json:"error,omitempty"`
}

// Driver walks a registry from a document's version to the registry target.
type Driver struct {
	registry *Registry
	now      func() time.Time
	logger   *log.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithClock overrides the clock used for meta.updatedAt.
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) {
		d.now = now
	}
}

// WithLogger sets the logger used to trace applied steps.
func WithLogger(logger *log.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a driver over registry.
func NewDriver(registry *Registry, opts ...DriverOption) *Driver {
	d := &Driver{
		registry: registry,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Target returns the version migrations end at.
func (d *Driver) Target() string {
	return d.registry.Target()
}

// NeedsMigration reports whether doc carries a readable version that differs
// from the target.
func (d *Driver) NeedsMigration(doc vision.Document) bool {
	v, ok := doc.Version()
	return ok && v != d.registry.Target()
}

// Plan returns the steps that lead from version to the target without
// applying them. It fails with *PathError or *CycleError.
func (d *Driver) Plan(version string) ([]Migration, error) {
	target := d.registry.Target()
	visited := map[string]bool{}
	var steps []Migration

	for current := version; current != target; {
		if visited[current] {
			return nil, &CycleError{Version: current, Path: Transitions(steps)}
		}
		visited[current] = true

		m, ok := d.registry.Lookup(current)
		if !ok {
			return nil, &PathError{Version: current, Target: target}
		}
		steps = append(steps, m)
		current = m.To
	}
	return steps, nil
}

// Migrate upgrades doc to the target version. The input document is never
// modified; each step receives a fresh deep copy. When at least one step runs,
// meta.updatedAt is set once at the end.
func (d *Driver) Migrate(doc vision.Document) *Result {
	result := &Result{AppliedTransitions: []string{}}

	from, ok := doc.Version()
	if !ok {
		result.Error = "meta.version is missing or not a string; cannot determine a migration path"
		return result
	}

	steps, err := d.Plan(from)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	current := doc
	for _, m := range steps {
		input, err := current.Clone()
		if err != nil {
			result.Error = fmt.Sprintf("migration %s: %v", m.Transition(), err)
			result.AppliedTransitions = []string{}
			return result
		}

		next := m.Apply(input)
		if got, _ := next.Version(); got != m.To {
			result.Error = fmt.Sprintf("migration %s left meta.version at %q", m.Transition(), got)
			result.AppliedTransitions = []string{}
			return result
		}

		d.logger.Debug("applied migration", "transition", m.Transition(), "description", m.Description)
		result.AppliedTransitions = append(result.AppliedTransitions, m.Transition())
		current = next
	}

	if len(steps) > 0 {
		current.SetMeta("updatedAt", d.now().UTC().Format(TimestampLayout))
	}

	result.Success = true
	result.Document = current
	return result
}

// Transitions returns the labels of steps in order.
func Transitions(steps []Migration) []string {
	out := make([]string, 0, len(steps))
	for _, m := range steps {
		out = append(out, m.Transition())
	}
	return out
}
