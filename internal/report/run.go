package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/plaid-labs/plaid-vision/internal/migration"
	"github.com/plaid-labs/plaid-vision/internal/store"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Store reads and writes vision documents.
type Store interface {
	Load(path string) (vision.Document, error)
	Save(path string, doc vision.Document) error
}

// Runner applies the validate or migrate policy to one document.
type Runner struct {
	validator *vision.Validator
	driver    *migration.Driver
	store     Store
	logger    *log.Logger
	schema    *jsonschema.Schema
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSchemaCheck enables the JSON Schema cross-check. Its findings are
// reported as warnings.
func WithSchemaCheck(schema *jsonschema.Schema) RunnerOption {
	return func(r *Runner) {
		r.schema = schema
	}
}

// NewRunner creates a runner. The validator and driver must agree on the
// target version.
func NewRunner(validator *vision.Validator, driver *migration.Driver, st Store, opts ...RunnerOption) *Runner {
	r := &Runner{
		validator: validator,
		driver:    driver,
		store:     st,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the document at path and validates it, migrating first when it
// is behind the target version and migrate is set. Every failure is returned
// as an invalid report.
func (r *Runner) Run(path string, migrate bool) *Report {
	name := filepath.Base(path)

	doc, err := r.store.Load(path)
	if err != nil {
		r.logger.Warn("could not load document", "path", path, "err", err)
		return Failure(loadError(name, path, err))
	}
	r.logger.Debug("loaded document", "path", path)

	if !r.driver.NeedsMigration(doc) {
		return r.validate(doc, newReport())
	}

	version, _ := doc.Version()
	steps, err := r.driver.Plan(version)
	if err != nil {
		return Failure(err.Error())
	}

	if !migrate {
		rep := Failure(fmt.Sprintf(
			"%s is at schema version %q but the current version is %q. Re-run with --migrate to upgrade it.",
			name, version, r.driver.Target(),
		))
		rep.PendingMigrations = migration.Transitions(steps)
		return rep
	}

	result := r.driver.Migrate(doc)
	if !result.Success {
		return Failure(result.Error)
	}
	if err := r.store.Save(path, result.Document); err != nil {
		r.logger.Error("could not write migrated document", "path", path, "err", err)
		return Failure(fmt.Sprintf("Failed to write %s: %v", name, err))
	}
	r.logger.Info("migrated document", "path", path, "transitions", result.AppliedTransitions)

	rep := newReport()
	rep.Migrated = true
	rep.MigrationsApplied = result.AppliedTransitions
	return r.validate(result.Document, rep)
}

func (r *Runner) validate(doc vision.Document, rep *Report) *Report {
	rep.merge(r.validator.Validate(doc))
	if r.schema != nil {
		rep.Warnings = append(rep.Warnings, vision.SchemaFindings(r.schema, doc)...)
	}
	return rep
}

func loadError(name, path string, err error) string {
	var parseErr *store.ParseError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("%s not found at %s", name, path)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Failed to parse %s: %v", name, parseErr.Err)
	default:
		return fmt.Sprintf("Failed to read %s: %v", name, err)
	}
}
