package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/reagent/oracle"
	"github.com/taskweave/reagent/tool"
	"github.com/taskweave/reagent/tools"
)

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	reg := tool.NewRegistry()
	require.NoError(t, tools.RegisterAll(reg))
	return reg
}

func fastRetries(o *Options) {
	o.OracleRetries = 1
	o.RetryBackoff = time.Millisecond
	o.OracleTimeout = time.Second
}

func TestRunCompletesOnFinish(t *testing.T) {
	script := oracle.NewScripted().
		AddAction("add the numbers", "calculator", map[string]any{"operation": "add", "a": 5.0, "b": 3.0}).
		AddFinish("the sum is 8", 8.0)

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "add 5 and 3", MaxIterations: 5})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 8.0, result.FinalOutput)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, "calculator", result.Steps[0].Action)
	assert.Equal(t, "8", result.Steps[0].Observation)
}

func TestRunToolErrorIsRecoverableSignal(t *testing.T) {
	// The operation rejects the bogus operation name; the run keeps going
	// and succeeds on the corrected turn.
	script := oracle.NewScripted().
		AddAction("try it", "calculator", map[string]any{"operation": "add majorana", "a": 5.0, "b": 3.0}).
		AddFinish("retried with a plain add", 8.0)

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "add 5 and 3", MaxIterations: 5})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 8.0, result.FinalOutput)
	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Steps[0].Observation, "unsupported operation")
}

func TestRunZeroIterationsExhaustsImmediately(t *testing.T) {
	script := oracle.NewScripted().AddFinish("never reached", 1)
	runner := New(newTestRegistry(t), script, fastRetries)

	for _, maxIters := range []int{0, -3} {
		result := runner.Run(context.Background(), Task{Task: "noop", MaxIterations: maxIters})
		assert.Equal(t, StatusExhausted, result.Status)
		assert.Empty(t, result.Steps)
		assert.Equal(t, "no steps executed", result.FinalOutput)
	}
	assert.Equal(t, 0, script.Calls())
}

func TestRunExhaustsAtExactlyMaxIterations(t *testing.T) {
	script := oracle.NewScripted().
		AddAction("keep counting", "string_analyzer", map[string]any{"text": "hello world"}).
		RepeatLast()

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "never finishes", MaxIterations: 3})

	assert.Equal(t, StatusExhausted, result.Status)
	assert.Len(t, result.Steps, 3)
	assert.Contains(t, result.FinalOutput, "iteration limit (3)")
}

func TestRunUnknownToolNeverRaises(t *testing.T) {
	script := oracle.NewScripted().
		AddAction("guess a name", "calcultor", map[string]any{"a": 1.0}).
		RepeatLast()

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "typo run", MaxIterations: 4})

	assert.Equal(t, StatusExhausted, result.Status)
	require.Len(t, result.Steps, 4)
	for _, step := range result.Steps {
		assert.Contains(t, step.Observation, `"calcultor" not found`)
	}
}

func TestRunStepsNeverExceedMaxIterations(t *testing.T) {
	script := oracle.NewScripted().
		AddAction("loop", "string_analyzer", map[string]any{"text": "x"}).
		RepeatLast()
	runner := New(newTestRegistry(t), script, fastRetries)

	for _, maxIters := range []int{1, 2, 7} {
		result := runner.Run(context.Background(), Task{Task: "bounded", MaxIterations: maxIters})
		assert.LessOrEqual(t, len(result.Steps), maxIters)
	}
}

func TestRunMalformedTurnConsumesIteration(t *testing.T) {
	script := oracle.NewScripted().
		AddRaw("I will use the calculator now.").
		AddFinish("recovered", "done")

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "recover", MaxIterations: 2})

	assert.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Steps[0].Observation, "invalid action format")

	// With a bound of 1 the same script exhausts before the finish turn.
	script = oracle.NewScripted().
		AddRaw("still not json").
		AddFinish("too late", "done")
	runner = New(newTestRegistry(t), script, fastRetries)
	result = runner.Run(context.Background(), Task{Task: "recover", MaxIterations: 1})
	assert.Equal(t, StatusExhausted, result.Status)
	assert.Len(t, result.Steps, 1)
}

func TestRunOracleFailureAfterRetryBudget(t *testing.T) {
	providerErr := &oracle.Error{Err: errors.New("provider down")}
	script := oracle.NewScripted().
		AddError(providerErr).
		AddError(providerErr).
		AddError(providerErr)

	runner := New(newTestRegistry(t), script, func(o *Options) {
		o.OracleRetries = 2
		o.RetryBackoff = time.Millisecond
		o.OracleTimeout = time.Second
	})
	result := runner.Run(context.Background(), Task{Task: "doomed", MaxIterations: 5})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.FinalOutput, "oracle channel failed")
	assert.Contains(t, result.FinalOutput, "provider down")
	assert.Empty(t, result.Steps)
	assert.Equal(t, 3, script.Calls())
}

func TestRunOracleRecoversWithinRetryBudget(t *testing.T) {
	script := oracle.NewScripted().
		AddError(&oracle.Error{Err: errors.New("blip")}).
		AddFinish("second attempt worked", "ok")

	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "flaky", MaxIterations: 3})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "ok", result.FinalOutput)
}

func TestRunCancellationBetweenIterations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	script := oracle.NewScripted().
		AddAction("first", "string_analyzer", map[string]any{"text": "x"}).
		RepeatLast()

	// Cancel after the first oracle call by wrapping the scripted oracle.
	cancelling := oracleFunc(func(c context.Context, req oracle.Request) (oracle.Action, error) {
		action, err := script.Propose(c, req)
		cancel()
		return action, err
	})

	runner := New(newTestRegistry(t), cancelling, fastRetries)
	result := runner.Run(ctx, Task{Task: "canceled", MaxIterations: 10})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.FinalOutput, "canceled")
	assert.Len(t, result.Steps, 1)
}

func TestRunWallClockBudget(t *testing.T) {
	slow := oracleFunc(func(c context.Context, _ oracle.Request) (oracle.Action, error) {
		select {
		case <-c.Done():
			return oracle.Action{}, &oracle.Error{Err: c.Err()}
		case <-time.After(50 * time.Millisecond):
			return oracle.Action{Action: "string_analyzer", ActionInput: map[string]any{"text": "x"}}, nil
		}
	})

	runner := New(newTestRegistry(t), slow, func(o *Options) {
		fastRetries(o)
		o.OracleRetries = 0
		o.RunTimeout = 20 * time.Millisecond
	})
	result := runner.Run(context.Background(), Task{Task: "slow", MaxIterations: 100})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Less(t, len(result.Steps), 100)
}

func TestRunFinishOutputConventions(t *testing.T) {
	// Designated output field wins.
	script := oracle.NewScripted().
		AddAction("done", oracle.ActionFinish, map[string]any{"output": "the answer"})
	runner := New(newTestRegistry(t), script, fastRetries)
	result := runner.Run(context.Background(), Task{Task: "t", MaxIterations: 2})
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "the answer", result.FinalOutput)

	// Without it, the whole action input is the output.
	script = oracle.NewScripted().
		AddAction("done", oracle.ActionFinish, map[string]any{"grade": 95.0})
	runner = New(newTestRegistry(t), script, fastRetries)
	result = runner.Run(context.Background(), Task{Task: "t", MaxIterations: 2})
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, map[string]any{"grade": 95.0}, result.FinalOutput)
}

func TestRunConcurrentRunsShareNoState(t *testing.T) {
	reg := newTestRegistry(t)

	done := make(chan *Result, 8)
	for i := 0; i < 8; i++ {
		go func() {
			script := oracle.NewScripted().
				AddAction("analyze", "string_analyzer", map[string]any{"text": "a b c"}).
				AddFinish("ok", "done")
			runner := New(reg, script, fastRetries)
			done <- runner.Run(context.Background(), Task{Task: "parallel", MaxIterations: 3})
		}()
	}

	for i := 0; i < 8; i++ {
		result := <-done
		assert.Equal(t, StatusCompleted, result.Status)
		assert.Len(t, result.Steps, 1)
	}
}

// oracleFunc adapts a function to the oracle.Oracle interface.
type oracleFunc func(ctx context.Context, req oracle.Request) (oracle.Action, error)

func (f oracleFunc) Propose(ctx context.Context, req oracle.Request) (oracle.Action, error) {
	return f(ctx, req)
}
