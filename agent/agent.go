package agent

import (
	"github.com/taskweave/reagent/oracle"
)

// Status is the terminal (or in-flight) state of one agent run.
type Status string

const (
	// StatusRunning is the in-flight state while the loop iterates.
	StatusRunning Status = "running"
	// StatusCompleted means the oracle proposed the finish action.
	StatusCompleted Status = "completed"
	// StatusFailed means the oracle channel broke (after the retry budget)
	// or the run was canceled.
	StatusFailed Status = "failed"
	// StatusExhausted means the iteration bound was reached without finish.
	StatusExhausted Status = "exhausted"
)

// Task is the caller's input for one run.
type Task struct {
	// Task is the free-form instruction.
	Task string `json:"task"`
	// Context is an opaque mapping passed through to the oracle and tools,
	// never interpreted by the runner.
	Context map[string]any `json:"context,omitempty"`
	// MaxIterations bounds the loop. A non-positive value exhausts the run
	// immediately with zero steps; callers wanting a default should apply
	// one before calling (the reagent façade uses 10).
	MaxIterations int `json:"max_iterations"`
}

// Step records one loop iteration: the oracle's rationale, the chosen
// action with its parameters, and the observed outcome (success value or
// error text). Steps are append-only and immutable once recorded.
type Step struct {
	Thought     string         `json:"thought"`
	Action      string         `json:"action"`
	ActionInput map[string]any `json:"action_input"`
	Observation string         `json:"observation"`
}

// Result is the outcome of one run: the final output, the full ordered
// step trace for diagnosis, and the terminal status. Every run produces a
// well-formed Result; Failed and Exhausted runs carry a human-readable
// explanation in FinalOutput.
type Result struct {
	FinalOutput any    `json:"final_output"`
	Steps       []Step `json:"steps"`
	Status      Status `json:"status"`
}

// stepViews adapts the run's step trace into the oracle's view of history.
func stepViews(steps []Step) []oracle.StepView {
	views := make([]oracle.StepView, len(steps))
	for i, s := range steps {
		views[i] = oracle.StepView{
			Thought:     s.Thought,
			Action:      s.Action,
			ActionInput: s.ActionInput,
			Observation: s.Observation,
		}
	}
	return views
}
