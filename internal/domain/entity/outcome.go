package entity

type OutcomeStatus string

const (
	OutcomeSuccess  OutcomeStatus = "success"
	OutcomeNotFound OutcomeStatus = "not_found"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeUsage    OutcomeStatus = "usage"
)

// Outcome is what the executor reports for a single command.
type Outcome struct {
	Command Command
	Status  OutcomeStatus
	Message string
	Err     error
}

func (o Outcome) OK() bool {
	return o.Status == OutcomeSuccess
}
