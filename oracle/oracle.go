// Package oracle defines the contract between the agent runner and the
// external reasoning backend that proposes the next Thought/Action for a
// run. The concrete backend (a hosted language model) is injected; the
// package also ships a deterministic Scripted oracle so tests and examples
// never need a live model.
package oracle

import (
	"context"
	"fmt"

	"github.com/taskweave/reagent/tool"
)

// ActionFinish is the reserved action name a backend proposes to end a run
// successfully. Its action input carries the final output (see Action).
const ActionFinish = "finish"

// OutputKey is the designated action-input field holding the final output
// of a finish action. When absent, the whole action input is taken as the
// final output.
const OutputKey = "output"

// Action is one parsed proposal from the reasoning backend: the rationale,
// the tool to invoke (or ActionFinish) and its named parameters.
type Action struct {
	Thought     string         `json:"thought"`
	Action      string         `json:"action"`
	ActionInput map[string]any `json:"action_input"`
}

// IsFinish reports whether the proposal ends the run.
func (a Action) IsFinish() bool { return a.Action == ActionFinish }

// FinalOutput extracts the final output from a finish action: the value of
// the designated OutputKey field if present, otherwise the whole action
// input map.
func (a Action) FinalOutput() any {
	if out, ok := a.ActionInput[OutputKey]; ok {
		return out
	}
	return a.ActionInput
}

// StepView is one prior loop iteration as shown to the backend, giving it
// memory of past Thoughts, Actions and Observations.
type StepView struct {
	Thought     string         `json:"thought"`
	Action      string         `json:"action"`
	ActionInput map[string]any `json:"action_input"`
	Observation string         `json:"observation"`
}

// Request is the full input for one backend call.
type Request struct {
	// Task is the caller's free-form instruction.
	Task string `json:"task"`
	// Context is an opaque mapping passed through from the caller,
	// not interpreted by the core.
	Context map[string]any `json:"context,omitempty"`
	// Catalog lists the registered tools (name, description, schema).
	Catalog []tool.Definition `json:"catalog"`
	// Steps is the full ordered history of the run so far.
	Steps []StepView `json:"steps"`
}

// Oracle proposes the next action for a run. Implementations must honor
// ctx cancellation and deadlines; the runner bounds every call with a
// per-call timeout and retries transient failures.
type Oracle interface {
	Propose(ctx context.Context, req Request) (Action, error)
}

// Error wraps a failure in the oracle channel itself (transport, provider,
// timeout). Channel errors are retried by the runner and, once the retry
// budget is exhausted, end the run as failed.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("oracle error: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// FormatError indicates the backend's textual output could not be parsed
// into an Action. Unlike Error it is not a channel failure: the runner
// records it as an observation so the backend can self-correct on the next
// turn.
type FormatError struct {
	Raw    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid action format: %s", e.Reason)
}
