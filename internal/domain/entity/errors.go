package entity

import (
	"errors"
	"fmt"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrSessionClosed   = errors.New("browser session already released")

	ErrMissingCredential = errors.New("missing API credential")
	ErrPlannerTransport  = errors.New("error while calling the language model")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrUnexpectedShape   = errors.New("unexpected model response shape")
)

// PlanError is returned by the planner for every failure it reports to the
// user. Kind is one of the Err* planning sentinels above.
type PlanError struct {
	Kind error
	Raw  string
	Err  error
}

func (e *PlanError) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Raw)
	}
	return msg
}

func (e *PlanError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewPlanError(kind error, raw string, cause error) *PlanError {
	return &PlanError{Kind: kind, Raw: raw, Err: cause}
}
