// Package openai talks to OpenAI-compatible chat completion gateways.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-screener/internal/ai"

	goopenai "github.com/sashabaranov/go-openai"
)

const providerName = "openai"

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

type Completer struct {
	client chatClient
	model  string
}

// New creates a completer for the gateway at baseURL. An empty baseURL uses
// the library default.
func New(apiKey, baseURL, model string) (*Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("openai model is required")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &Completer{client: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *Completer) Provider() string { return providerName }

func (c *Completer) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Completer) Complete(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai completer is not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: buildMessages(req),
	})
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ai.ErrEmptyCompletion
	}
	return content, nil
}

func buildMessages(req ai.Request) []goopenai.ChatCompletionMessage {
	msgs := make([]goopenai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	user := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser}
	if req.Document != nil {
		user.MultiContent = []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL: dataURL(*req.Document),
				},
			},
		}
	} else {
		user.Content = req.Prompt
	}
	return append(msgs, user)
}

func dataURL(doc ai.Document) string {
	return fmt.Sprintf("data:%s;base64,%s", doc.MIMEType, doc.Base64)
}

func translateError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &ai.StatusError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &ai.StatusError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Message: string(reqErr.Body), Err: err}
	}
	return fmt.Errorf("chat completion: %w", err)
}
