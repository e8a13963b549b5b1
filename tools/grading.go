package tools

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strings"
)

var gradeSubmissionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rubric": map[string]any{
			"type":        "object",
			"description": "Rubric mapping category name to {points, items?}. Known categories: syntax, required_elements, documentation, style",
		},
		"submission": map[string]any{
			"type":        "string",
			"description": "The student's Go source code",
		},
	},
	"required": []string{"rubric", "submission"},
}

// GradeSubmission scores a code submission against a rubric. The rubric is
// passed as data rather than read from disk, keeping the tool free of any
// filesystem coupling: the transport layer resolves uploads before the run.
//
// Each rubric category contributes its point value weighted by the checks
// for that category; unknown categories score zero with a note so a
// misspelled rubric is visible in the feedback rather than silently ignored.
func GradeSubmission(_ context.Context, args map[string]any) (any, error) {
	rubric, ok := args["rubric"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("rubric is %T, want object", args["rubric"])
	}
	submission := args["submission"].(string)

	breakdown := make(map[string]any, len(rubric))
	totalScore := 0.0
	maxScore := 0.0

	for category, raw := range rubric {
		criteria, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rubric category %q is %T, want object", category, raw)
		}
		points := numeric(criteria["points"])
		maxScore += points

		earned, feedback := gradeCategory(category, criteria, points, submission)
		totalScore += earned

		breakdown[category] = map[string]any{
			"earned":   round2(earned),
			"possible": points,
			"feedback": feedback,
		}
	}

	percentage := 0.0
	if maxScore > 0 {
		percentage = totalScore / maxScore * 100
	}

	return map[string]any{
		"total_score": round2(totalScore),
		"max_score":   maxScore,
		"percentage":  math.Round(percentage*10) / 10,
		"breakdown":   breakdown,
	}, nil
}

func gradeCategory(category string, criteria map[string]any, points float64, submission string) (float64, []string) {
	switch category {
	case "syntax":
		if parses(submission) {
			return points, []string{"code has valid syntax"}
		}
		return 0, []string{"syntax error: code does not parse"}

	case "required_elements":
		items := stringItems(criteria["items"])
		if len(items) == 0 {
			return 0, []string{"no required elements listed"}
		}
		declared := declaredNames(submission)
		perItem := points / float64(len(items))
		earned := 0.0
		var feedback []string
		for _, item := range items {
			if _, ok := declared[item]; ok {
				earned += perItem
				feedback = append(feedback, "found: "+item)
			} else {
				feedback = append(feedback, "missing: "+item)
			}
		}
		return earned, feedback

	case "documentation":
		ratio := docRatio(submission)
		switch {
		case ratio >= 0.8:
			return ratio * points, []string{"well documented"}
		case ratio >= 0.5:
			return ratio * points, []string{"partial documentation"}
		default:
			return ratio * points, []string{"poor documentation"}
		}

	case "style":
		issues := styleIssues(submission)
		score := 1.0 - 0.2*float64(len(issues))
		if score < 0 {
			score = 0
		}
		if len(issues) == 0 {
			return points, []string{"good code style"}
		}
		return score * points, append([]string{"could improve code style"}, issues...)

	default:
		return 0, []string{"unknown rubric category"}
	}
}

func parses(code string) bool {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "submission.go", code, 0)
	return err == nil
}

// declaredNames collects top-level function and type names; when the code
// does not parse it falls back to word presence so partially broken
// submissions still get element credit.
func declaredNames(code string) map[string]struct{} {
	names := make(map[string]struct{})

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "submission.go", code, 0)
	if err != nil {
		for _, word := range strings.Fields(code) {
			names[strings.Trim(word, "(){}")] = struct{}{}
		}
		return names
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			names[d.Name.Name] = struct{}{}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					names[ts.Name.Name] = struct{}{}
				}
			}
		}
	}
	return names
}

func docRatio(code string) float64 {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "submission.go", code, parser.ParseComments)
	if err != nil {
		return 0
	}

	functions := 0
	documented := 0
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			functions++
			if fd.Doc != nil {
				documented++
			}
		}
	}
	if functions == 0 {
		return 1.0
	}

	ratio := float64(documented) / float64(functions)
	if len(file.Comments) > 0 {
		ratio += 0.2
	}
	return math.Min(1.0, ratio)
}

func stringItems(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
