package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskweave/reagent/internal/util"
	"github.com/taskweave/reagent/logging"
	"github.com/taskweave/reagent/oracle"
	"github.com/taskweave/reagent/tool"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives structured run/iteration/dispatch events.
	Logger logging.Logger
	// OracleTimeout bounds each individual oracle call.
	OracleTimeout time.Duration
	// OracleRetries is the number of retries after a failed oracle call
	// before the run transitions to failed.
	OracleRetries int
	// RetryBackoff is the initial delay before an oracle retry; it doubles
	// per attempt.
	RetryBackoff time.Duration
	// RunTimeout is an optional wall-clock budget for the whole run; zero
	// means unbounded. When exceeded, the run ends failed between
	// iterations.
	RunTimeout time.Duration
}

// Runner drives the Thought -> Action -> Observation cycle for one task at
// a time. A Runner holds no per-run state and is safe for concurrent use:
// every Run call owns an independent step trace and iteration counter, and
// the shared tool registry is treated as read-only for the lifetime of
// concurrent runs.
type Runner struct {
	registry *tool.Registry
	oracle   oracle.Oracle
	logger   logging.Logger

	oracleTimeout time.Duration
	oracleRetries int
	retryBackoff  time.Duration
	runTimeout    time.Duration
}

// New constructs a Runner over a populated registry and an injected oracle.
func New(registry *tool.Registry, o oracle.Oracle, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		OracleTimeout: 30 * time.Second,
		OracleRetries: 2,
		RetryBackoff:  500 * time.Millisecond,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		registry:      registry,
		oracle:        o,
		logger:        opts.Logger,
		oracleTimeout: opts.OracleTimeout,
		oracleRetries: opts.OracleRetries,
		retryBackoff:  opts.RetryBackoff,
		runTimeout:    opts.RunTimeout,
	}
}

// Run executes the loop to completion, exhaustion or failure.
//
// Run always returns a well-formed Result: tool-level failures and
// malformed oracle turns are absorbed into the step trace so the oracle
// can self-correct, while oracle channel failures, cancellation and the
// iteration bound surface as a terminal status with a human-readable
// explanation. By design there is no error return; the Result's Status
// and FinalOutput carry the outcome.
func (r *Runner) Run(ctx context.Context, task Task) *Result {
	runID := util.NewID()
	logger := r.logger

	logger.Info("run.start", "run_id", runID, "task", task.Task, "max_iterations", task.MaxIterations)

	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	steps := make([]Step, 0, max(task.MaxIterations, 0))

	if task.MaxIterations <= 0 {
		logger.Warn("run.exhausted", "run_id", runID, "iterations", 0)
		return &Result{
			FinalOutput: "no steps executed",
			Steps:       steps,
			Status:      StatusExhausted,
		}
	}

	for iteration := 0; iteration < task.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return r.failed(logger, runID, steps, fmt.Sprintf("run canceled: %v", err))
		}

		req := oracle.Request{
			Task:    task.Task,
			Context: task.Context,
			Catalog: r.registry.List(),
			Steps:   stepViews(steps),
		}

		action, err := r.propose(ctx, logger, runID, req)
		if err != nil {
			var formatErr *oracle.FormatError
			if errors.As(err, &formatErr) {
				// One malformed turn is recoverable signal, but it still
				// consumes an iteration to bound worst-case cost.
				logger.Warn("run.oracle.malformed", "run_id", runID, "iteration", iteration, "reason", formatErr.Reason)
				steps = append(steps, Step{Observation: formatErr.Error()})
				continue
			}
			return r.failed(logger, runID, steps, explainOracleFailure(err))
		}

		if action.IsFinish() {
			logger.Info("run.completed", "run_id", runID, "iterations", iteration, "steps", len(steps))
			return &Result{
				FinalOutput: action.FinalOutput(),
				Steps:       steps,
				Status:      StatusCompleted,
			}
		}

		observation := r.dispatch(ctx, logger, runID, action)
		steps = append(steps, Step{
			Thought:     action.Thought,
			Action:      action.Action,
			ActionInput: action.ActionInput,
			Observation: observation,
		})
	}

	logger.Warn("run.exhausted", "run_id", runID, "iterations", task.MaxIterations)
	return &Result{
		FinalOutput: exhaustedSummary(task.MaxIterations, steps),
		Steps:       steps,
		Status:      StatusExhausted,
	}
}

// propose calls the oracle with a per-call timeout, retrying channel
// failures with exponential backoff up to the retry budget. Format errors
// are returned immediately: they are handled by the loop, not retried.
func (r *Runner) propose(ctx context.Context, logger logging.Logger, runID string, req oracle.Request) (oracle.Action, error) {
	backoff := r.retryBackoff
	var lastErr error

	for attempt := 0; attempt <= r.oracleRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("run.oracle.retry", "run_id", runID, "attempt", attempt, "backoff", backoff.String())
			select {
			case <-ctx.Done():
				return oracle.Action{}, &oracle.Error{Err: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, r.oracleTimeout)
		action, err := r.oracle.Propose(callCtx, req)
		cancel()

		if err == nil {
			return action, nil
		}

		var formatErr *oracle.FormatError
		if errors.As(err, &formatErr) {
			return oracle.Action{}, err
		}
		if ctx.Err() != nil {
			return oracle.Action{}, &oracle.Error{Err: ctx.Err()}
		}

		logger.Error("run.oracle.error", "run_id", runID, "attempt", attempt, "error", err.Error())
		lastErr = err
	}

	return oracle.Action{}, lastErr
}

// dispatch invokes the chosen tool through the registry and renders the
// outcome as observation text. Typed dispatch failures (unknown tool,
// validation, execution) are rendered verbatim so the oracle can
// self-correct on the next thought; they never end the run.
func (r *Runner) dispatch(ctx context.Context, logger logging.Logger, runID string, action oracle.Action) string {
	start := time.Now()

	result, err := r.registry.Dispatch(ctx, action.Action, action.ActionInput)
	if err != nil {
		logger.Warn("run.dispatch.error", "run_id", runID, "tool", action.Action, "error", err.Error())
		return err.Error()
	}

	logger.Debug("run.dispatch.success", "run_id", runID, "tool", action.Action, "duration_ms", time.Since(start).Milliseconds())
	return renderObservation(result)
}

func (r *Runner) failed(logger logging.Logger, runID string, steps []Step, explanation string) *Result {
	logger.Error("run.failed", "run_id", runID, "steps", len(steps), "reason", explanation)
	return &Result{
		FinalOutput: explanation,
		Steps:       steps,
		Status:      StatusFailed,
	}
}

// renderObservation turns a tool's success value into observation text.
// Strings pass through; everything else is JSON when possible.
func renderObservation(result any) string {
	switch v := result.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}

func explainOracleFailure(err error) string {
	if errors.Is(err, context.Canceled) {
		return fmt.Sprintf("run canceled: %v", err)
	}
	return fmt.Sprintf("oracle channel failed: %v", err)
}

func exhaustedSummary(maxIterations int, steps []Step) string {
	if len(steps) == 0 {
		return "no steps executed"
	}
	last := steps[len(steps)-1]
	return fmt.Sprintf("reached iteration limit (%d); last observation: %s", maxIterations, last.Observation)
}
