package task

import "fmt"

// TaskRejectedError is returned by Build when the supplied Task contains
// conditional effects or axioms, or an operator with a negative cost —
// constructs the core does not support.
type TaskRejectedError struct {
	Reason string
}

func (e TaskRejectedError) Error() string {
	return fmt.Sprintf("task rejected: %s", e.Reason)
}

// NewTaskRejectedError returns a TaskRejectedError with the given reason.
func NewTaskRejectedError(reason string) TaskRejectedError {
	return TaskRejectedError{Reason: reason}
}

// IsTaskRejected reports whether err is a TaskRejectedError.
func IsTaskRejected(err error) bool {
	_, ok := err.(TaskRejectedError)
	return ok
}
