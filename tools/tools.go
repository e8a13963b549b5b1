package tools

import (
	"github.com/taskweave/reagent/tool"
)

// RegisterAll registers the full built-in tool set with a registry. It is
// intended for startup wiring; registering into a registry that already
// holds one of these names fails with the registry's duplicate error.
func RegisterAll(reg *tool.Registry) error {
	builtins := []struct {
		name        string
		op          tool.Operation
		description string
		schema      map[string]any
	}{
		{
			name:        "calculator",
			op:          Calculator,
			description: "Perform basic arithmetic operations (add, subtract, multiply, divide) on two numbers",
			schema:      calculatorSchema,
		},
		{
			name:        "string_analyzer",
			op:          StringAnalyzer,
			description: "Analyze a string and return statistics (length, word count, unique words)",
			schema:      stringAnalyzerSchema,
		},
		{
			name:        "list_processor",
			op:          ListProcessor,
			description: "Process a list of items (count, sort, reverse, unique)",
			schema:      listProcessorSchema,
		},
		{
			name:        "json_formatter",
			op:          JSONFormatter,
			description: "Format an object as indented JSON",
			schema:      jsonFormatterSchema,
		},
		{
			name:        "analyze_code",
			op:          AnalyzeCode,
			description: "Analyze Go source code structure: functions, documentation coverage, style issues",
			schema:      analyzeCodeSchema,
		},
		{
			name:        "grade_submission",
			op:          GradeSubmission,
			description: "Grade a Go code submission against a rubric (syntax, required_elements, documentation, style)",
			schema:      gradeSubmissionSchema,
		},
	}

	for _, b := range builtins {
		err := reg.Register(b.name, b.op,
			tool.WithDescription(b.description),
			tool.WithParameters(b.schema),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
