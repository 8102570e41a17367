package llm

import "fmt"

// UnavailableError indicates the generative service could not be reached or
// did not answer within its deadline.
type UnavailableError struct {
	Reason string
	Cause  error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model unavailable: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("model unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedOutputError indicates the model's response could not be parsed
// into the expected structured shape, even after best-effort JSON recovery.
type MalformedOutputError struct {
	Reason string
	Cause  error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model output: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

// EmptyResultError indicates parsing succeeded but validation left zero
// usable skills.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "no valid skills extracted"
}
