package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusOK, "", map[string]int{"n": 1})
	})
	app.Get("/bad-status", func(c fiber.Ctx) error {
		return Error(c, 42, "", nil)
	})
	app.Get("/busy", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusServiceUnavailable, "", nil)
	})

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/ok", status: fiber.StatusOK, message: MessageOK},
		{path: "/bad-status", status: fiber.StatusInternalServerError, message: MessageInternalServerError},
		{path: "/busy", status: fiber.StatusServiceUnavailable, message: MessageServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			raw, _ := io.ReadAll(resp.Body)
			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("decode %s: %v", raw, err)
			}
			if env.Status != tc.status || env.Message != tc.message {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestDefaultMessage_ClientErrors(t *testing.T) {
	if got := DefaultMessage(fiber.StatusRequestEntityTooLarge); got != MessageRequestEntityTooLarge {
		t.Fatalf("unexpected 413 message %q", got)
	}
	if got := DefaultMessage(fiber.StatusTeapot); got != MessageError {
		t.Fatalf("unexpected fallback %q", got)
	}
}
