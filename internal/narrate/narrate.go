// Package narrate summarises report output in plain language using the
// OpenAI chat API.
package narrate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lox/bikeshare/internal/httputil"
)

const systemPrompt = `You summarise bike-share ridership reports for a casual reader.
Reply with one or two plain sentences. Mention only numbers that appear in the report.`

// Narrator asks a chat model for a short summary of a report.
type Narrator struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

// New creates a narrator. Extra options are passed to the OpenAI client.
func New(apiKey string, opts ...option.RequestOption) (*Narrator, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httputil.NewClient(0)),
	}
	client := openai.NewClient(append(base, opts...)...)

	return &Narrator{
		client:  client,
		model:   openai.ChatModelGPT4oMini,
		timeout: httputil.DefaultTimeout,
	}, nil
}

// Narrate returns a summary of the report text.
func (n *Narrator) Narrate(ctx context.Context, report, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	resp, err := n.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: n.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Printf("narrate: %s report summarised in %s", report, time.Since(start).Round(time.Millisecond))
	return summary, nil
}
