package model

import "fmt"

type Stage string

const (
	StageInit        Stage = "init"
	StageFetching    Stage = "fetching"
	StageAggregating Stage = "aggregating"
	StageRendering   Stage = "rendering"
	StageDispatching Stage = "dispatching"
)

type OutcomeStatus string

const (
	OutcomeSuccess        OutcomeStatus = "success"
	OutcomePartialSuccess OutcomeStatus = "partial_success"
	OutcomeFailed         OutcomeStatus = "failed"
)

// Outcome is the terminal state of one run.
type Outcome struct {
	Status       OutcomeStatus
	Completeness float64
	// Stage and Cause are set only for failed outcomes.
	Stage Stage
	Cause error
}

func Success() Outcome {
	return Outcome{Status: OutcomeSuccess, Completeness: 1}
}

func PartialSuccess(completeness float64) Outcome {
	return Outcome{Status: OutcomePartialSuccess, Completeness: completeness}
}

func Failed(stage Stage, cause error) Outcome {
	return Outcome{Status: OutcomeFailed, Stage: stage, Cause: cause}
}

func (o Outcome) String() string {
	if o.Status == OutcomeFailed {
		return fmt.Sprintf("%s at %s: %v", o.Status, o.Stage, o.Cause)
	}
	return fmt.Sprintf("%s (completeness %.2f)", o.Status, o.Completeness)
}
