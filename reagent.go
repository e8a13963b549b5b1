// Package reagent provides a high-level façade over the tool registry and
// the agent runner, enabling rapid construction of Reason-Act-Observe task
// agents. Most applications interact with this package by:
//  1. Creating an Agent via New() with an injected reasoning oracle
//  2. Registering tools (the built-in set is included by default)
//  3. Running tasks via Run or RunTask
//
// The façade delegates the loop to agent.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and
// tuned timeouts.
package reagent

import (
	"context"
	"time"

	"github.com/taskweave/reagent/agent"
	"github.com/taskweave/reagent/logging"
	"github.com/taskweave/reagent/oracle"
	"github.com/taskweave/reagent/tool"
	"github.com/taskweave/reagent/tools"
)

// DefaultMaxIterations bounds runs whose task does not set its own limit.
const DefaultMaxIterations = 10

// Options configures the Agent façade.
type Options struct {
	// MaxIterations is the default loop bound applied when a task leaves
	// its own limit unset.
	MaxIterations int
	// SkipBuiltinTools leaves the registry empty instead of registering
	// the built-in tool set.
	SkipBuiltinTools bool
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
	// OracleTimeout bounds each oracle call.
	OracleTimeout time.Duration
	// OracleRetries is the retry budget for failed oracle calls.
	OracleRetries int
	// RunTimeout is an optional wall-clock budget per run (0 = unbounded).
	RunTimeout time.Duration
}

// Agent aggregates an owned tool registry and a runner over an injected
// reasoning oracle.
type Agent struct {
	registry *tool.Registry
	runner   *agent.Runner
	opts     Options
}

// New creates an Agent with optional overrides. The registry is created
// fresh and owned by the Agent; it is populated with the built-in tool set
// unless SkipBuiltinTools is set.
func New(o oracle.Oracle, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
		OracleTimeout: 30 * time.Second,
		OracleRetries: 2,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry()
	if !opts.SkipBuiltinTools {
		if err := tools.RegisterAll(registry); err != nil {
			return nil, err
		}
	}

	runner := agent.New(registry, o, func(ro *agent.Options) {
		ro.Logger = opts.Logger
		ro.OracleTimeout = opts.OracleTimeout
		ro.OracleRetries = opts.OracleRetries
		ro.RunTimeout = opts.RunTimeout
	})

	return &Agent{
		registry: registry,
		runner:   runner,
		opts:     opts,
	}, nil
}

// Registry exposes the agent's tool registry for additional registrations
// during the init phase, before any run starts.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// RegisterTool registers an additional tool with the agent's registry.
func (a *Agent) RegisterTool(name string, op tool.Operation, optFns ...func(o *tool.RegisterOptions)) error {
	return a.registry.Register(name, op, optFns...)
}

// Run executes a task with the default iteration bound.
func (a *Agent) Run(ctx context.Context, task string, taskContext map[string]any) *agent.Result {
	return a.RunTask(ctx, agent.Task{
		Task:          task,
		Context:       taskContext,
		MaxIterations: a.opts.MaxIterations,
	})
}

// RunTask executes a fully specified task. The task's MaxIterations is
// taken literally: a non-positive value exhausts the run immediately.
func (a *Agent) RunTask(ctx context.Context, task agent.Task) *agent.Result {
	return a.runner.Run(ctx, task)
}
