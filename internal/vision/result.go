package vision

// Result is the outcome of validating one document.
// Errors and Warnings keep check order and are never nil.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true, Errors: []string{}, Warnings: []string{}}
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// AddError records an error and marks the result invalid.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// AddWarning records a warning. Warnings never affect Valid.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
