package tools

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

var analyzeCodeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"code": map[string]any{"type": "string", "description": "Go source code to analyze"},
	},
	"required": []string{"code"},
}

// AnalyzeCode parses a Go source file and reports structural metrics:
// declared functions and types, documentation coverage and a basic style
// score. Invalid source still produces a result with valid=false so the
// agent can report the syntax problem instead of failing.
func AnalyzeCode(_ context.Context, args map[string]any) (any, error) {
	code := args["code"].(string)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "submission.go", code, parser.ParseComments)
	if err != nil {
		return map[string]any{
			"valid":  false,
			"error":  err.Error(),
			"lines":  len(strings.Split(code, "\n")),
			"names":  []string{},
			"issues": []string{"source does not parse"},
		}, nil
	}

	var names []string
	functions := 0
	documented := 0

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			names = append(names, d.Name.Name)
			functions++
			if d.Doc != nil {
				documented++
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					names = append(names, ts.Name.Name)
				}
			}
		}
	}

	docRatio := 1.0
	if functions > 0 {
		docRatio = float64(documented) / float64(functions)
	}
	if names == nil {
		names = []string{}
	}

	return map[string]any{
		"valid":          true,
		"lines":          len(strings.Split(code, "\n")),
		"functions":      functions,
		"names":          names,
		"documented":     documented,
		"doc_ratio":      docRatio,
		"comment_groups": len(file.Comments),
		"issues":         styleIssues(code),
	}, nil
}

// styleIssues flags basic mechanical style problems.
func styleIssues(code string) []string {
	issues := []string{}
	for _, line := range strings.Split(code, "\n") {
		if len(line) > 120 {
			issues = append(issues, "line over 120 characters")
			break
		}
	}
	if strings.Contains(code, "\n\n\n\n") {
		issues = append(issues, "excessive blank lines")
	}
	for _, bad := range []string{"aa", "bb", "xxx", "tmp123"} {
		for _, word := range strings.Fields(code) {
			if word == bad {
				issues = append(issues, "suspicious identifier "+bad)
			}
		}
	}
	return issues
}
