// Package gemini implements ai.Completer on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"resume-screener/internal/ai"

	"google.golang.org/genai"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"
)

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Completer struct {
	models    modelsAPI
	modelName string
}

// New creates a completer configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Completer{models: client.Models, modelName: model}, nil
}

func (c *Completer) Provider() string { return providerName }

func (c *Completer) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func (c *Completer) Complete(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini completer is not initialized")
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Document != nil {
		data, err := base64.StdEncoding.DecodeString(req.Document.Base64)
		if err != nil {
			return "", fmt.Errorf("decode document: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.Document.MIMEType))
	}

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(req.System) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		}
	}

	resp, err := c.models.GenerateContent(ctx, c.modelName, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, cfg)
	if err != nil {
		return "", translateError(err)
	}

	output := collectText(resp)
	if output == "" {
		return "", ai.ErrEmptyCompletion
	}
	return output, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &ai.StatusError{Provider: providerName, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return &ai.StatusError{Provider: providerName, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return fmt.Errorf("generate content: %w", err)
}
