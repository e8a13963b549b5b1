package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionPlainObject(t *testing.T) {
	action, err := ParseAction(`{"thought":"add the numbers","action":"calculator","action_input":{"operation":"add","a":5,"b":3}}`)
	require.NoError(t, err)
	assert.Equal(t, "add the numbers", action.Thought)
	assert.Equal(t, "calculator", action.Action)
	assert.Equal(t, "add", action.ActionInput["operation"])
	assert.Equal(t, 5.0, action.ActionInput["a"])
}

func TestParseActionFencedAndWrapped(t *testing.T) {
	raw := "Sure, here is the next step:\n```json\n{\"thought\":\"done\",\"action\":\"finish\",\"action_input\":{\"output\":8}}\n```"
	action, err := ParseAction(raw)
	require.NoError(t, err)
	assert.True(t, action.IsFinish())
	assert.Equal(t, 8.0, action.FinalOutput())
}

func TestParseActionLegacyAliases(t *testing.T) {
	action, err := ParseAction(`{"tool":"calculator","tool_input":{"operation":"add","a":1,"b":2}}`)
	require.NoError(t, err)
	assert.Equal(t, "calculator", action.Action)
	assert.Equal(t, "add", action.ActionInput["operation"])
}

func TestParseActionScalarFinishInput(t *testing.T) {
	action, err := ParseAction(`{"action":"finish","action_input":"all done"}`)
	require.NoError(t, err)
	assert.Equal(t, "all done", action.FinalOutput())
}

func TestParseActionScalarInputForToolFails(t *testing.T) {
	_, err := ParseAction(`{"action":"calculator","action_input":"add"}`)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "not an object")
}

func TestParseActionMissingInput(t *testing.T) {
	action, err := ParseAction(`{"thought":"look around","action":"list_tools"}`)
	require.NoError(t, err)
	assert.NotNil(t, action.ActionInput)
	assert.Empty(t, action.ActionInput)
}

func TestParseActionMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"I think we should use the calculator.",
		`{"thought":"no action here"}`,
		`{broken json`,
	} {
		_, err := ParseAction(raw)
		var formatErr *FormatError
		assert.ErrorAs(t, err, &formatErr, "raw: %q", raw)
	}
}

func TestFinalOutputWholeInputWithoutOutputKey(t *testing.T) {
	action := Action{
		Action:      ActionFinish,
		ActionInput: map[string]any{"grade": 95.0, "comments": "solid"},
	}
	assert.Equal(t, map[string]any{"grade": 95.0, "comments": "solid"}, action.FinalOutput())
}
