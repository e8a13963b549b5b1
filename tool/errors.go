package tool

import (
	"fmt"
	"strings"

	"github.com/taskweave/reagent/internal/util"
)

// DuplicateToolError indicates a Register call reused an existing tool name.
// Last-write-wins is deliberately rejected: registration must be explicit,
// so overwriting requires deregistering first.
type DuplicateToolError struct {
	Tool string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Tool)
}

// SchemaInferenceError indicates a tool's parameter schema was neither
// provided nor derivable, or the provided schema did not compile.
type SchemaInferenceError struct {
	Tool string
	Err  error
}

func (e *SchemaInferenceError) Error() string {
	return fmt.Sprintf("cannot establish parameter schema for tool %q: %v", e.Tool, e.Err)
}

func (e *SchemaInferenceError) Unwrap() error { return e.Err }

// ToolNotFoundError indicates a Dispatch call named an unregistered tool.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Tool)
}

// ValidationError indicates dispatch parameters failed schema validation.
// Violations lists every offending field; the underlying operation was
// never invoked.
type ValidationError struct {
	Tool       string
	Violations []util.FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid parameters for tool %q: %s", e.Tool, strings.Join(parts, "; "))
}

// ToolExecutionError wraps a failure raised by the tool's operation itself,
// including recovered panics. It carries the tool name plus the underlying
// error so dispatch always returns a result or a typed failure, never a
// crash.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }
