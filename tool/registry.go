package tool

import (
	"context"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/taskweave/reagent/internal/util"
)

// Registry is the central catalog and uniform invocation surface for all
// tools. Registries are created per process (or per test) and passed by
// handle to the agent runner; there is no ambient global instance.
//
// Lookups and dispatch are safe for concurrent use. Registration itself is
// expected to happen during a single-threaded init phase before any run
// starts; the mutex makes late registration not corrupt state, but the
// catalog seen by in-flight runs is undefined in that case.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Definition
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Definition),
	}
}

// Register adds a tool to the catalog.
//
// The name must be unique: re-registering an existing name fails with
// *DuplicateToolError rather than overwriting. When no explicit schema is
// supplied via WithParameters, one is derived from the WithArgsStruct value;
// if neither is available the registration fails with *SchemaInferenceError,
// as does an explicit schema that does not compile as JSON Schema.
func (r *Registry) Register(name string, op Operation, optFns ...func(o *RegisterOptions)) error {
	if name == "" {
		return &SchemaInferenceError{Tool: name, Err: fmt.Errorf("tool name is empty")}
	}
	if op == nil {
		return &SchemaInferenceError{Tool: name, Err: fmt.Errorf("operation is nil")}
	}

	opts := RegisterOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	schema := opts.Parameters
	if schema == nil {
		if opts.ArgsStruct == nil {
			return &SchemaInferenceError{
				Tool: name,
				Err:  fmt.Errorf("no parameter schema provided and no args struct to derive one from"),
			}
		}
		derived, err := util.CreateSchema(opts.ArgsStruct)
		if err != nil {
			return &SchemaInferenceError{Tool: name, Err: err}
		}
		schema = derived
	}

	if err := compileSchema(schema); err != nil {
		return &SchemaInferenceError{Tool: name, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Tool: name}
	}

	r.tools[name] = &Definition{
		Name:        name,
		Description: opts.Description,
		Parameters:  schema,
		op:          op,
	}
	r.order = append(r.order, name)

	return nil
}

// Deregister removes a tool by name, returning whether it was present.
// Needed for explicit re-registration: Register never overwrites.
func (r *Registry) Deregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return false
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the definition for a tool name. Unknown names report false,
// never an error; callers branch on absence.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tools[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// List returns all tool definitions in registration order. The returned
// slice is a fresh copy each call, so two List calls without an intervening
// Register yield identical sequences. This is the catalog shown to the
// reasoning model.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, *r.tools[name])
	}
	return defs
}

// Dispatch validates parameters against the named tool's schema and invokes
// its operation.
//
// Failure modes are all typed and never escape as panics:
//
//	unknown name            -> *ToolNotFoundError
//	schema violation        -> *ValidationError (operation never invoked)
//	operation error / panic -> *ToolExecutionError
//
// Validation applies best-effort coercion for primitive types (numeric
// strings and the like); the operation receives the coerced arguments.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (result any, err error) {
	r.mu.RLock()
	def, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ToolNotFoundError{Tool: name}
	}

	if params == nil {
		params = map[string]any{}
	}

	args, violations := util.ValidateParameters(params, def.Parameters)
	if violations != nil {
		return nil, &ValidationError{Tool: name, Violations: violations}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &ToolExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	out, err := def.op(ctx, args)
	if err != nil {
		return nil, &ToolExecutionError{Tool: name, Err: err}
	}
	return out, nil
}

// compileSchema checks that a parameter schema is itself valid JSON Schema.
// It does not validate any instance data.
func compileSchema(schema map[string]any) error {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("mem://schema.json", toPlain(schema)); err != nil {
		return err
	}
	_, err := c.Compile("mem://schema.json")
	return err
}

// toPlain rewrites schema maps into the generic shapes the compiler expects,
// converting []string required lists into []any.
func toPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = toPlain(val)
		}
		return m
	case []string:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = val
		}
		return s
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = toPlain(val)
		}
		return s
	default:
		return v
	}
}
