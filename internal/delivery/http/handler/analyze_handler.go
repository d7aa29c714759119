package handler

import (
	"context"
	"encoding/json"
	"errors"

	"resume-screener/internal/gateway"
	"resume-screener/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ResumeAnalyzer is the gateway as seen by HTTP.
type ResumeAnalyzer interface {
	Authenticate(bearer string) (gateway.Identity, error)
	AnalyzeFor(ctx context.Context, id gateway.Identity, req gateway.Request) (gateway.AnalysisResult, error)
}

// AnalyzeHandler serves POST /analyze-resume. Unlike the rest of the API it
// answers failures with a bare {"error": "..."} body.
type AnalyzeHandler struct {
	gw     ResumeAnalyzer
	logger *zap.Logger
}

type analyzeErrorBody struct {
	Error string `json:"error"`
}

func NewAnalyzeHandler(gw ResumeAnalyzer, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{gw: gw, logger: logger.OrNop(log)}
}

func (h *AnalyzeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/analyze-resume", h.Analyze)
}

func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	id, err := h.gw.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return h.fail(c, err)
	}

	var req gateway.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return h.fail(c, gateway.InvalidRequest("Invalid JSON body"))
	}

	result, err := h.gw.AnalyzeFor(c.Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AnalyzeHandler) fail(c fiber.Ctx, err error) error {
	kind := gateway.KindOf(err)
	status := gateway.StatusCode(kind)

	fields := []zap.Field{zap.String("kind", string(kind)), zap.Int("status", status), zap.Error(err)}
	var ge *gateway.Error
	if status >= fiber.StatusInternalServerError && errors.As(err, &ge) {
		fields = append(fields, zap.ByteString("stack", ge.StackTrace()))
	}
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("analyze resume failed", fields...)
	} else {
		h.logger.Warn("analyze resume rejected", fields...)
	}

	return c.Status(status).JSON(analyzeErrorBody{Error: gateway.Message(err)})
}
