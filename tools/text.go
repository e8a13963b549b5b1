package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

var stringAnalyzerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text": map[string]any{"type": "string", "description": "The text to analyze"},
	},
	"required": []string{"text"},
}

// StringAnalyzer returns basic statistics about a piece of text.
func StringAnalyzer(_ context.Context, args map[string]any) (any, error) {
	text := args["text"].(string)
	words := strings.Fields(text)

	unique := make(map[string]struct{}, len(words))
	totalLen := 0
	for _, w := range words {
		unique[w] = struct{}{}
		totalLen += len(w)
	}

	avg := 0.0
	if len(words) > 0 {
		avg = float64(totalLen) / float64(len(words))
	}

	return map[string]any{
		"length":              len(text),
		"word_count":          len(words),
		"unique_words":        len(unique),
		"average_word_length": avg,
	}, nil
}

var listProcessorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{"type": "array", "description": "List of items to process"},
		"operation": map[string]any{
			"type":        "string",
			"description": "Operation to perform (count, sort, reverse, unique)",
		},
	},
	"required": []string{"items", "operation"},
}

// ListProcessor applies a named operation to a list of strings.
func ListProcessor(_ context.Context, args map[string]any) (any, error) {
	items, err := stringSlice(args["items"])
	if err != nil {
		return nil, err
	}
	operation := args["operation"].(string)

	switch operation {
	case "count":
		return len(items), nil
	case "sort":
		sorted := append([]string(nil), items...)
		sort.Strings(sorted)
		return sorted, nil
	case "reverse":
		reversed := make([]string, len(items))
		for i, item := range items {
			reversed[len(items)-1-i] = item
		}
		return reversed, nil
	case "unique":
		seen := make(map[string]struct{}, len(items))
		uniq := make([]string, 0, len(items))
		for _, item := range items {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			uniq = append(uniq, item)
		}
		return uniq, nil
	default:
		return nil, fmt.Errorf("unsupported operation: %q", operation)
	}
}

var jsonFormatterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"data":   map[string]any{"type": "object", "description": "Object to format"},
		"indent": map[string]any{"type": "integer", "description": "Number of spaces for indentation"},
	},
	"required": []string{"data"},
}

// JSONFormatter pretty-prints an object as indented JSON.
func JSONFormatter(_ context.Context, args map[string]any) (any, error) {
	data := args["data"]

	indent := 2
	if n, ok := args["indent"].(int); ok {
		indent = n
	}

	b, err := json.MarshalIndent(data, "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, fmt.Errorf("data is not JSON-serializable: %w", err)
	}
	return string(b), nil
}

func stringSlice(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, want string", i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("items is %T, want array of strings", v)
	}
}
