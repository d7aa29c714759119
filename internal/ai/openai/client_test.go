package openai

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"resume-screener/internal/ai"

	goopenai "github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	resp goopenai.ChatCompletionResponse
	err  error
	last goopenai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	f.last = req
	return f.resp, f.err
}

func reply(text string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{{Message: goopenai.ChatCompletionMessage{Content: text}}},
	}
}

func TestCompleter_SendsDocumentAsDataURL(t *testing.T) {
	fake := &fakeChat{resp: reply(`{"name":"Ada"}`)}
	c := &Completer{client: fake, model: "google/gemini-2.5-flash"}

	out, err := c.Complete(context.Background(), ai.Request{
		System:   "system",
		Prompt:   "prompt",
		Document: &ai.Document{Base64: "QUJD", MIMEType: "application/pdf"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != `{"name":"Ada"}` {
		t.Fatalf("unexpected output %q", out)
	}

	if fake.last.Model != "google/gemini-2.5-flash" {
		t.Fatalf("unexpected model %q", fake.last.Model)
	}
	if len(fake.last.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(fake.last.Messages))
	}
	if fake.last.Messages[0].Role != goopenai.ChatMessageRoleSystem || fake.last.Messages[0].Content != "system" {
		t.Fatalf("unexpected system message: %+v", fake.last.Messages[0])
	}
	parts := fake.last.Messages[1].MultiContent
	if len(parts) != 2 || parts[0].Text != "prompt" {
		t.Fatalf("unexpected user parts: %+v", parts)
	}
	if parts[1].ImageURL == nil || parts[1].ImageURL.URL != "data:application/pdf;base64,QUJD" {
		t.Fatalf("unexpected document part: %+v", parts[1])
	}
}

func TestCompleter_TextOnly(t *testing.T) {
	fake := &fakeChat{resp: reply("ok")}
	c := &Completer{client: fake, model: "m"}

	if _, err := c.Complete(context.Background(), ai.Request{Prompt: "resume text"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(fake.last.Messages) != 1 || fake.last.Messages[0].Content != "resume text" || fake.last.Messages[0].MultiContent != nil {
		t.Fatalf("unexpected messages: %+v", fake.last.Messages)
	}
}

func TestCompleter_TranslatesStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "api error", err: &goopenai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, want: http.StatusTooManyRequests},
		{name: "request error", err: &goopenai.RequestError{HTTPStatusCode: http.StatusPaymentRequired, Err: errors.New("402")}, want: http.StatusPaymentRequired},
		{name: "transport", err: errors.New("dial tcp: refused"), want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Completer{client: &fakeChat{err: tc.err}, model: "m"}
			_, err := c.Complete(context.Background(), ai.Request{Prompt: "p"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ai.StatusCode(err); got != tc.want {
				t.Fatalf("expected status %d, got %d (%v)", tc.want, got, err)
			}
		})
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	c := &Completer{client: &fakeChat{resp: goopenai.ChatCompletionResponse{}}, model: "m"}
	if _, err := c.Complete(context.Background(), ai.Request{Prompt: "p"}); !errors.Is(err, ai.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(" ", "", "m"); err == nil {
		t.Fatal("expected error for empty key")
	}
}
