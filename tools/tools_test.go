package tools

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/reagent/tool"
)

func TestRegisterAll(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, RegisterAll(reg))

	defs := reg.List()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"calculator", "string_analyzer", "list_processor",
		"json_formatter", "analyze_code", "grade_submission",
	}, names)

	// A second registration collides on every name.
	err := RegisterAll(reg)
	var dupErr *tool.DuplicateToolError
	assert.ErrorAs(t, err, &dupErr)
}

func TestCalculator(t *testing.T) {
	ctx := context.Background()

	out, err := Calculator(ctx, map[string]any{"operation": "add", "a": 5.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 8.0, out)

	out, err = Calculator(ctx, map[string]any{"operation": "subtract", "a": 5.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out)

	out, err = Calculator(ctx, map[string]any{"operation": "multiply", "a": 5.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 15.0, out)

	out, err = Calculator(ctx, map[string]any{"operation": "divide", "a": 6.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out)

	out, err = Calculator(ctx, map[string]any{"operation": "divide", "a": 6.0, "b": 0.0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(out.(float64), 1))

	_, err = Calculator(ctx, map[string]any{"operation": "modulo", "a": 6.0, "b": 4.0})
	assert.ErrorContains(t, err, "unsupported operation")
}

func TestCalculatorThroughDispatch(t *testing.T) {
	reg := tool.NewRegistry()
	require.NoError(t, RegisterAll(reg))

	out, err := reg.Dispatch(context.Background(), "calculator", map[string]any{
		"operation": "add", "a": 5, "b": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, out)

	// A string operation value passes validation; rejection happens inside
	// the operation and surfaces as an execution error.
	_, err = reg.Dispatch(context.Background(), "calculator", map[string]any{
		"operation": "add majorana", "a": 5, "b": 3,
	})
	var execErr *tool.ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "unsupported operation")
}

func TestStringAnalyzer(t *testing.T) {
	out, err := StringAnalyzer(context.Background(), map[string]any{"text": "the quick the lazy"})
	require.NoError(t, err)

	stats := out.(map[string]any)
	assert.Equal(t, 18, stats["length"])
	assert.Equal(t, 4, stats["word_count"])
	assert.Equal(t, 3, stats["unique_words"])
	assert.InDelta(t, 3.75, stats["average_word_length"].(float64), 1e-9)
}

func TestStringAnalyzerEmpty(t *testing.T) {
	out, err := StringAnalyzer(context.Background(), map[string]any{"text": ""})
	require.NoError(t, err)
	stats := out.(map[string]any)
	assert.Equal(t, 0, stats["word_count"])
	assert.Equal(t, 0.0, stats["average_word_length"])
}

func TestListProcessor(t *testing.T) {
	ctx := context.Background()
	items := []any{"banana", "apple", "banana", "cherry"}

	out, err := ListProcessor(ctx, map[string]any{"items": items, "operation": "count"})
	require.NoError(t, err)
	assert.Equal(t, 4, out)

	out, err = ListProcessor(ctx, map[string]any{"items": items, "operation": "sort"})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "banana", "cherry"}, out)

	out, err = ListProcessor(ctx, map[string]any{"items": items, "operation": "reverse"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "banana", "apple", "banana"}, out)

	out, err = ListProcessor(ctx, map[string]any{"items": items, "operation": "unique"})
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "apple", "cherry"}, out)

	_, err = ListProcessor(ctx, map[string]any{"items": items, "operation": "shuffle"})
	assert.ErrorContains(t, err, "unsupported operation")

	_, err = ListProcessor(ctx, map[string]any{"items": []any{"a", 1}, "operation": "count"})
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter(context.Background(), map[string]any{
		"data": map[string]any{"b": 1.0, "a": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": 1\n}", out)

	out, err = JSONFormatter(context.Background(), map[string]any{
		"data":   map[string]any{"a": true},
		"indent": 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": true\n}", out)
}

const validSource = `package sample

// Add returns the sum of two ints.
func Add(a, b int) int { return a + b }

func helper() int { return 0 }

type Pair struct{ X, Y int }
`

func TestAnalyzeCode(t *testing.T) {
	out, err := AnalyzeCode(context.Background(), map[string]any{"code": validSource})
	require.NoError(t, err)

	report := out.(map[string]any)
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, 2, report["functions"])
	assert.Equal(t, 1, report["documented"])
	assert.ElementsMatch(t, []string{"Add", "helper", "Pair"}, report["names"])
	assert.InDelta(t, 0.5, report["doc_ratio"].(float64), 1e-9)
}

func TestAnalyzeCodeInvalidSyntax(t *testing.T) {
	out, err := AnalyzeCode(context.Background(), map[string]any{"code": "package broken\nfunc {"})
	require.NoError(t, err)

	report := out.(map[string]any)
	assert.Equal(t, false, report["valid"])
	assert.NotEmpty(t, report["error"])
}

func TestGradeSubmission(t *testing.T) {
	rubric := map[string]any{
		"syntax": map[string]any{"points": 20.0},
		"required_elements": map[string]any{
			"points": 30.0,
			"items":  []any{"Add", "Missing"},
		},
		"documentation": map[string]any{"points": 25.0},
		"style":         map[string]any{"points": 25.0},
	}

	out, err := GradeSubmission(context.Background(), map[string]any{
		"rubric":     rubric,
		"submission": validSource,
	})
	require.NoError(t, err)

	result := out.(map[string]any)
	assert.Equal(t, 100.0, result["max_score"])

	breakdown := result["breakdown"].(map[string]any)
	syntax := breakdown["syntax"].(map[string]any)
	assert.Equal(t, 20.0, syntax["earned"])

	elements := breakdown["required_elements"].(map[string]any)
	assert.Equal(t, 15.0, elements["earned"])
	assert.Contains(t, elements["feedback"], "found: Add")
	assert.Contains(t, elements["feedback"], "missing: Missing")

	// Half the functions are documented plus the comment bonus.
	docs := breakdown["documentation"].(map[string]any)
	assert.InDelta(t, 0.7*25.0, docs["earned"].(float64), 1e-9)

	style := breakdown["style"].(map[string]any)
	assert.Equal(t, 25.0, style["earned"])

	total := result["total_score"].(float64)
	assert.InDelta(t, 20+15+17.5+25, total, 1e-9)
	assert.InDelta(t, 77.5, result["percentage"].(float64), 1e-9)
}

func TestGradeSubmissionBrokenCode(t *testing.T) {
	rubric := map[string]any{
		"syntax": map[string]any{"points": 10.0},
	}

	out, err := GradeSubmission(context.Background(), map[string]any{
		"rubric":     rubric,
		"submission": "func {",
	})
	require.NoError(t, err)

	result := out.(map[string]any)
	breakdown := result["breakdown"].(map[string]any)
	syntax := breakdown["syntax"].(map[string]any)
	assert.Equal(t, 0.0, syntax["earned"])

	feedback := syntax["feedback"].([]string)
	assert.Contains(t, feedback[0], "syntax error")
}

func TestGradeSubmissionUnknownCategory(t *testing.T) {
	out, err := GradeSubmission(context.Background(), map[string]any{
		"rubric":     map[string]any{"vibes": map[string]any{"points": 5.0}},
		"submission": validSource,
	})
	require.NoError(t, err)

	result := out.(map[string]any)
	breakdown := result["breakdown"].(map[string]any)
	vibes := breakdown["vibes"].(map[string]any)
	assert.Equal(t, 0.0, vibes["earned"])
	assert.Contains(t, vibes["feedback"].([]string)[0], "unknown rubric category")
}
