package tools

import (
	"context"
	"fmt"
	"math"
)

var calculatorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"operation": map[string]any{
			"type":        "string",
			"description": "The operation to perform (add, subtract, multiply, divide)",
		},
		"a": map[string]any{"type": "number", "description": "First number"},
		"b": map[string]any{"type": "number", "description": "Second number"},
	},
	"required": []string{"operation", "a", "b"},
}

// Calculator performs basic arithmetic. Division by zero yields +Inf rather
// than an error, matching calculator conventions elsewhere in the system.
func Calculator(_ context.Context, args map[string]any) (any, error) {
	operation := args["operation"].(string)
	a := args["a"].(float64)
	b := args["b"].(float64)

	switch operation {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return math.Inf(1), nil
		}
		return a / b, nil
	default:
		return nil, fmt.Errorf("unsupported operation: %q", operation)
	}
}
