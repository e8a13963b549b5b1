package oracle

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseAction turns a backend's free-form textual output into an Action.
//
// Models are instructed to answer with a bare JSON object but routinely
// wrap it in prose or markdown fences, so parsing is tolerant: the first
// JSON object found in the text is used, and both the native field names
// (action/action_input) and the legacy aliases (tool/tool_input) are
// accepted. Failures return a *FormatError carrying the raw output.
func ParseAction(raw string) (Action, error) {
	doc, ok := extractObject(raw)
	if !ok {
		return Action{}, &FormatError{Raw: raw, Reason: "no JSON object in output"}
	}

	parsed := gjson.Parse(doc)

	name := firstString(parsed, "action", "tool")
	if name == "" {
		return Action{}, &FormatError{Raw: raw, Reason: "missing action name"}
	}

	action := Action{
		Thought:     firstString(parsed, "thought", "reasoning"),
		Action:      name,
		ActionInput: map[string]any{},
	}

	input := firstResult(parsed, "action_input", "tool_input", "input")
	switch {
	case !input.Exists():
		// No parameters proposed; empty input is fine.
	case input.IsObject():
		if m, ok := input.Value().(map[string]any); ok {
			action.ActionInput = m
		}
	default:
		// A scalar final value is tolerated for finish actions.
		if name == ActionFinish {
			action.ActionInput = map[string]any{OutputKey: input.Value()}
			break
		}
		return Action{}, &FormatError{Raw: raw, Reason: "action input is not an object"}
	}

	return action, nil
}

// extractObject locates the first JSON object in free-form text, stripping
// markdown fences first. Returns false when no valid object is present.
func extractObject(raw string) (string, bool) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	doc := text[start : end+1]
	if !gjson.Valid(doc) {
		return "", false
	}
	return doc, true
}

func firstResult(parsed gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := parsed.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(parsed gjson.Result, paths ...string) string {
	r := firstResult(parsed, paths...)
	if r.Type != gjson.String {
		return ""
	}
	return r.String()
}
