package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskweave/reagent/tool"
)

// SystemPrompt renders the instruction block shown to the backend: the tool
// catalog as JSON plus strict response-format rules. Backends prepend it to
// every call so each turn is self-contained.
func SystemPrompt(catalog []tool.Definition) string {
	catalogJSON, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		catalogJSON = []byte("[]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have access to the following tools:\n\n%s\n\n", catalogJSON)
	b.WriteString("Your job is to select the best tool for the next step and provide its inputs, ")
	b.WriteString("or to end the task by choosing the reserved action \"finish\".\n\n")
	b.WriteString("Respond ONLY with a JSON object of this exact shape:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"thought\": \"your reasoning for this step\",\n")
	b.WriteString("  \"action\": \"tool_name_or_finish\",\n")
	b.WriteString("  \"action_input\": { \"param\": \"value\" }\n")
	b.WriteString("}\n\n")
	b.WriteString("Important rules:\n")
	b.WriteString("- DO NOT wrap the result in any extra text.\n")
	b.WriteString("- DO NOT include explanations outside the JSON object.\n")
	b.WriteString("- When the task is done, use action \"finish\" with the final result ")
	b.WriteString("in action_input under the key \"output\".\n")
	return b.String()
}

// UserPrompt renders one turn's input: the task, the caller context, and the
// transcript of prior steps so the backend has memory of the run.
func UserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", req.Task)

	if len(req.Context) > 0 {
		if ctxJSON, err := json.Marshal(req.Context); err == nil {
			fmt.Fprintf(&b, "Context: %s\n", ctxJSON)
		}
	}

	if len(req.Steps) > 0 {
		b.WriteString("\nPrevious steps:\n")
		for i, step := range req.Steps {
			inputJSON, err := json.Marshal(step.ActionInput)
			if err != nil {
				inputJSON = []byte("{}")
			}
			fmt.Fprintf(&b, "%d. Thought: %s\n", i+1, step.Thought)
			fmt.Fprintf(&b, "   Action: %s %s\n", step.Action, inputJSON)
			fmt.Fprintf(&b, "   Observation: %s\n", step.Observation)
		}
	}

	b.WriteString("\nWhat is your next step?")
	return b.String()
}
