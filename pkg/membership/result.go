package membership

// Result reports the outcome of a batch operation
type Result struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors,omitempty"`
}

// NewResult derives a Result from an aggregator. Succeeded is true exactly
// when no messages were collected.
func NewResult(errs *Errors) Result {
	if errs == nil || errs.IsEmpty() {
		return Result{Succeeded: true}
	}
	return Result{Succeeded: false, Errors: errs.Messages()}
}
