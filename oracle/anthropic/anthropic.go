// Package anthropic implements the reasoning-oracle contract on top of the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/taskweave/reagent/oracle"
)

// Options configures the Anthropic oracle backend (model id, temperature,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Oracle wraps the Anthropic Messages API behind the oracle.Oracle interface.
type Oracle struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic oracle using the official client.
func New(optFns ...func(o *Options)) *Oracle {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Oracle{client: &client, opts: opts}
}

// NewFromClient creates an Anthropic oracle from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Oracle {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Oracle{client: client, opts: opts}
}

// Propose implements oracle.Oracle.
func (o *Oracle) Propose(ctx context.Context, req oracle.Request) (oracle.Action, error) {
	params := anthropic.MessageNewParams{
		Model:       o.opts.Model,
		MaxTokens:   o.opts.MaxTokens,
		Temperature: anthropic.Float(o.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: oracle.SystemPrompt(req.Catalog)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(oracle.UserPrompt(req))),
		},
	}

	resp, err := o.client.Messages.New(ctx, params)
	if err != nil {
		return oracle.Action{}, &oracle.Error{Err: fmt.Errorf("anthropic api error: %w", err)}
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return oracle.Action{}, &oracle.Error{Err: fmt.Errorf("no text content returned")}
	}

	return oracle.ParseAction(text.String())
}
