// Package report turns a document path and the migrate flag into the single
// outcome object printed by the CLI.
package report

import "github.com/plaid-labs/plaid-vision/internal/vision"

// Report is the JSON object written to standard output.
type Report struct {
	Valid             bool     `json:"valid"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	Migrated          bool     `json:"migrated"`
	MigrationsApplied []string `json:"migrationsApplied"`
	PendingMigrations []string `json:"pendingMigrations,omitempty"`
}

func newReport() *Report {
	return &Report{
		Errors:            []string{},
		Warnings:          []string{},
		MigrationsApplied: []string{},
	}
}

// Failure builds an invalid report carrying a single error.
func Failure(msg string) *Report {
	r := newReport()
	r.Errors = append(r.Errors, msg)
	return r
}

// merge copies a validation result into the report.
func (r *Report) merge(result *vision.Result) {
	r.Valid = result.Valid
	r.Errors = append(r.Errors, result.Errors...)
	r.Warnings = append(r.Warnings, result.Warnings...)
}

// ExitCode returns 0 for a valid report and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Valid {
		return 0
	}
	return 1
}
