package task

// Outcome is the terminal verdict of a task execution.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeNotFound Outcome = "not_found"
)

// Result is what a task reports back to the runner. Detail is a short human
// readable explanation; Data carries task-specific output such as created
// unit ids or suggested words.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
	Data    any     `json:"data,omitempty"`
}

// OK returns a successful result carrying data.
func OK(data any) Result {
	return Result{Outcome: OutcomeOK, Data: data}
}

// Skipped returns a result for a task that had nothing to do.
func Skipped(detail string) Result {
	return Result{Outcome: OutcomeSkipped, Detail: detail}
}

// NotFound returns a result for a task whose target entity is gone.
func NotFound(detail string) Result {
	return Result{Outcome: OutcomeNotFound, Detail: detail}
}
