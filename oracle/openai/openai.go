// Package openai implements the reasoning-oracle contract on top of the
// OpenAI Chat Completions API. Each Propose call is a single non-streaming
// completion in JSON-object response mode, parsed tolerantly into an action.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/taskweave/reagent/oracle"
)

// Options configure the OpenAI oracle backend. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Oracle wraps the OpenAI Chat Completions API behind the oracle.Oracle interface.
type Oracle struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI oracle using the official client with ambient
// credentials (OPENAI_API_KEY).
func New(optFns ...func(o *Options)) *Oracle {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI oracle from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Oracle {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Oracle{client: client, opts: opts}
}

// Propose implements oracle.Oracle. Transport and provider failures are
// wrapped as *oracle.Error; unparsable completions surface as
// *oracle.FormatError via oracle.ParseAction.
func (o *Oracle) Propose(ctx context.Context, req oracle.Request) (oracle.Action, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(oracle.SystemPrompt(req.Catalog)),
			openai.UserMessage(oracle.UserPrompt(req)),
		},
		Model:               o.opts.Model,
		Temperature:         openai.Float(o.opts.Temperature),
		MaxCompletionTokens: openai.Int(o.opts.MaxCompletionTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return oracle.Action{}, &oracle.Error{Err: fmt.Errorf("openai api error: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return oracle.Action{}, &oracle.Error{Err: fmt.Errorf("no choices returned")}
	}

	return oracle.ParseAction(resp.Choices[0].Message.Content)
}
