// Package tool implements the tool registry and dispatch subsystem that lets
// agents invoke structured capabilities (APIs, computations, side-effects)
// with schema validated arguments, consistent error handling and rich
// metadata for reasoning-model guidance.
package tool

import (
	"context"

	"github.com/taskweave/reagent/internal/util"
)

// Operation is the invocable unit behind a registered tool. It receives
// already-validated, type-coerced arguments and returns a JSON-serializable
// result. Operations that perform I/O must honor ctx cancellation and must
// be safe to call concurrently from independent agent runs, or serialize
// internally.
type Operation func(ctx context.Context, args map[string]any) (any, error)

// Definition describes one registered tool: its unique name, the
// human-readable description shown to the reasoning model, and a minimal
// JSON-Schema-like parameter schema (type/properties/required).
//
// The underlying operation is deliberately unexported: Get and List expose
// catalog data only, and invocation goes through Registry.Dispatch so every
// call is validated.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`

	op Operation
}

// RegisterOptions configures a single Register call.
//
// Use functional options with Registry.Register to override defaults.
type RegisterOptions struct {
	// Description is the natural language description exposed to the model.
	Description string
	// Parameters is an explicit JSON-Schema-like map for the accepted
	// arguments. When set, it is compiled at registration time and a
	// malformed schema fails the registration.
	Parameters map[string]any
	// ArgsStruct derives the parameter schema from a tagged struct via
	// reflection when Parameters is not set. Fields are required unless
	// they are pointers or tagged omitempty.
	ArgsStruct any
}

// WithDescription sets the tool description shown in the catalog.
func WithDescription(description string) func(o *RegisterOptions) {
	return func(o *RegisterOptions) { o.Description = description }
}

// WithParameters sets an explicit parameter schema.
func WithParameters(schema map[string]any) func(o *RegisterOptions) {
	return func(o *RegisterOptions) { o.Parameters = schema }
}

// WithArgsStruct derives the parameter schema from a struct value.
//
// Example:
//
//	type SumArgs struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	reg.Register("calculate_sum", sumOp, tool.WithArgsStruct(SumArgs{}))
func WithArgsStruct(v any) func(o *RegisterOptions) {
	return func(o *RegisterOptions) { o.ArgsStruct = v }
}

// CreateSchema builds a JSON-Schema-like parameter map from a tagged struct.
// Exposed for callers that want to inspect or tweak a derived schema before
// registering it explicitly.
func CreateSchema(structType any) (map[string]any, error) {
	return util.CreateSchema(structType)
}
