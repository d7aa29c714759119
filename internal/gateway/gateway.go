// Package gateway turns a resume and a job description into a structured
// AnalysisResult by way of a language model.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"resume-screener/internal/ai"
	"resume-screener/internal/domain/job"
	"resume-screener/internal/logger"
	"resume-screener/internal/pkg/jwt"
	"resume-screener/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultMIMEType  = "application/pdf"
	defaultMaxLogLen = 300
	tracerName       = "resume-screener/gateway"
)

// Request carries either a base64 document (canonical) or extracted resume
// text (legacy shape).
type Request struct {
	FileBase64      string `json:"fileBase64"`
	FileName        string `json:"fileName"`
	MIMEType        string `json:"mimeType"`
	ResumeText      string `json:"resumeText"`
	JobDescription  string `json:"jobDescription"`
	JobRequirements string `json:"jobRequirements"`
	JobID           string `json:"jobId"`
}

func (r Request) hasDocument() bool {
	return strings.TrimSpace(r.FileBase64) != ""
}

type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type TokenValidator interface {
	ValidateAccessToken(tokenString string) (jwt.Claims, error)
}

type JobLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

type Gateway struct {
	tokens    TokenValidator
	jobs      JobLookup
	completer ai.Completer
	logger    *zap.Logger
	tracer    trace.Tracer
	maxLogLen int
}

func New(tokens TokenValidator, jobs JobLookup, completer ai.Completer, log *zap.Logger, maxLogLen int) *Gateway {
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLen
	}
	return &Gateway{
		tokens:    tokens,
		jobs:      jobs,
		completer: completer,
		logger:    logger.OrNop(log),
		tracer:    otel.Tracer(tracerName),
		maxLogLen: maxLogLen,
	}
}

// Analyze authenticates bearer and then runs AnalyzeFor.
func (g *Gateway) Analyze(ctx context.Context, bearer string, req Request) (AnalysisResult, error) {
	id, err := g.Authenticate(bearer)
	if err != nil {
		return AnalysisResult{}, err
	}
	return g.AnalyzeFor(ctx, id, req)
}

// Authenticate resolves an Authorization header value (or a bare token) to an
// identity.
func (g *Gateway) Authenticate(bearer string) (Identity, error) {
	token := strings.TrimSpace(bearer)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return Identity{}, Unauthorized(errors.New("missing bearer token"))
	}
	if g.tokens == nil {
		return Identity{}, Unauthorized(errors.New("token validator not configured"))
	}

	claims, err := g.tokens.ValidateAccessToken(token)
	if err != nil {
		return Identity{}, Unauthorized(err)
	}
	return Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// AnalyzeFor runs one analysis on behalf of an already authenticated caller.
func (g *Gateway) AnalyzeFor(ctx context.Context, id Identity, req Request) (AnalysisResult, error) {
	if id.UserID == uuid.Nil {
		return AnalysisResult{}, Unauthorized(errors.New("anonymous identity"))
	}

	if strings.TrimSpace(req.JobID) != "" {
		if err := g.authorizeJob(ctx, id, &req); err != nil {
			return AnalysisResult{}, err
		}
	}

	if g.completer == nil {
		return AnalysisResult{}, newError(KindConfigurationError, "AI service is not configured", nil)
	}

	if !req.hasDocument() && strings.TrimSpace(req.ResumeText) == "" {
		return AnalysisResult{}, InvalidRequest("fileBase64 or resumeText is required")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return AnalysisResult{}, InvalidRequest("jobDescription is required")
	}

	return g.complete(ctx, req)
}

func (g *Gateway) authorizeJob(ctx context.Context, id Identity, req *Request) error {
	jobID, err := uuid.Parse(strings.TrimSpace(req.JobID))
	if err != nil {
		return NotFound(err)
	}
	if g.jobs == nil {
		return newError(KindConfigurationError, "Job lookup is not configured", nil)
	}

	j, err := g.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return NotFound(err)
		}
		return newError(KindPersistenceError, "Failed to load job", err)
	}
	if j == nil {
		return NotFound(repository.ErrJobNotFound)
	}
	if !j.OwnedBy(id.UserID) {
		return Forbidden(fmt.Errorf("job %s not owned by %s", jobID, id.UserID))
	}

	if strings.TrimSpace(req.JobDescription) == "" {
		req.JobDescription = j.Description
		if strings.TrimSpace(req.JobRequirements) == "" {
			req.JobRequirements = j.RequirementsText()
		}
	}
	return nil
}

func (g *Gateway) complete(ctx context.Context, req Request) (AnalysisResult, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.Analyze", trace.WithAttributes(
		attribute.String("ai.provider", g.completer.Provider()),
		attribute.String("ai.model", g.completer.Model()),
		attribute.Bool("resume.document", req.hasDocument()),
	))
	defer span.End()

	aiReq := ai.Request{
		System: systemPrompt,
		Prompt: buildUserPrompt(req.JobDescription, req.JobRequirements, req.ResumeText, req.hasDocument()),
	}
	if req.hasDocument() {
		mime := strings.TrimSpace(req.MIMEType)
		if mime == "" {
			mime = defaultMIMEType
		}
		aiReq.Document = &ai.Document{Base64: strings.TrimSpace(req.FileBase64), MIMEType: mime}
	}

	g.logger.Info("processing resume",
		zap.String("file_name", req.FileName),
		zap.String("mime_type", req.MIMEType),
		zap.String("model", g.completer.Model()),
	)

	content, err := g.completer.Complete(ctx, aiReq)
	if err != nil {
		gerr := classifyUpstream(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(gerr.Kind))
		g.logger.Error("ai completion failed",
			zap.String("kind", string(gerr.Kind)),
			zap.Int("upstream_status", ai.StatusCode(err)),
			zap.Error(err),
		)
		return AnalysisResult{}, gerr
	}

	g.logger.Debug("ai response received", zap.String("content", logger.TruncateForLog(content, g.maxLogLen)))

	result, err := parseCompletion(content)
	if err != nil {
		gerr := newError(KindResponseParseError, "Failed to parse AI analysis response", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(gerr.Kind))
		g.logger.Error("failed to parse ai response",
			zap.Error(err),
			zap.String("content", logger.TruncateForLog(content, g.maxLogLen)),
		)
		return AnalysisResult{}, gerr
	}

	span.SetAttributes(attribute.Int("resume.match_score", result.MatchScore))
	return result, nil
}

func classifyUpstream(err error) *Error {
	switch ai.StatusCode(err) {
	case http.StatusTooManyRequests:
		return newError(KindUpstreamRateLimited, "Rate limit exceeded. Please try again later.", err)
	case http.StatusPaymentRequired:
		return newError(KindUpstreamPaymentRequired, "Payment required. Please add credits to continue.", err)
	}
	if errors.Is(err, ai.ErrEmptyCompletion) {
		return newError(KindUpstreamError, "No content in AI response", err)
	}
	return newError(KindUpstreamError, "AI service error", err)
}
