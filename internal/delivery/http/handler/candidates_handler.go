package handler

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"resume-screener/internal/delivery/http/dto"
	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/screening"
	"resume-screener/internal/pkg/response"
	"resume-screener/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CandidatesHandler struct {
	uc usecase.CandidateUsecase
}

func NewCandidatesHandler(uc usecase.CandidateUsecase) *CandidatesHandler {
	return &CandidatesHandler{uc: uc}
}

func (h *CandidatesHandler) ListForJob(c fiber.Ctx) error {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	}

	spec, err := parseFilterSpec(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	listing, err := h.uc.ListForJob(c.Context(), userID, jobID, spec)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	out := dto.NewCandidateListResponse(dto.NewJobResponse(listing.Job), listing.Candidates, listing.Stats, spec, listing.ActiveFilterCount)
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CandidatesHandler) Get(c fiber.Ctx) error {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	}

	cand, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(cand))
}

func (h *CandidatesHandler) Decide(c fiber.Ctx) error {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	}

	var req dto.DecisionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	d, err := candidate.ParseDecision(req.Decision)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "decision must be shortlist, reject or undo", nil, err)
	}

	cand, err := h.uc.Decide(c.Context(), userID, id, d)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(cand))
}

func (h *CandidatesHandler) Delete(c fiber.Ctx) error {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "candidate deleted", nil)
}

func (h *CandidatesHandler) Resume(c fiber.Ctx) error {
	userID, _, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	}

	rf, err := h.uc.Resume(c.Context(), userID, id)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	if ct := mime.TypeByExtension(path.Ext(rf.Name)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	c.Attachment(rf.Name)
	// fasthttp closes the stream once the body is written.
	return c.SendStream(rf.Body)
}

func parseFilterSpec(c fiber.Ctx) (screening.FilterSpec, error) {
	spec := screening.DefaultFilterSpec()

	var err error
	if spec.MinScore, err = parseQueryIntStrict(c, "min_score", screening.MinScore); err != nil {
		return spec, errors.New("min_score must be an integer")
	}
	if spec.MaxScore, err = parseQueryIntStrict(c, "max_score", screening.MaxScore); err != nil {
		return spec, errors.New("max_score must be an integer")
	}
	if spec.MinScore < screening.MinScore || spec.MaxScore > screening.MaxScore || spec.MinScore > spec.MaxScore {
		return spec, fmt.Errorf("score range must satisfy %d <= min_score <= max_score <= %d", screening.MinScore, screening.MaxScore)
	}

	spec.SkillSearch = strings.TrimSpace(c.Query("skills"))
	spec.ExperienceSearch = strings.TrimSpace(c.Query("experience"))

	st, ok := screening.ParseStatus(c.Query("status"))
	if !ok {
		return spec, errors.New("status must be all, shortlisted, rejected or pending")
	}
	spec.Status = st
	return spec, nil
}

func mapCandidateUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, candidate.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Candidate decision cannot change that way; undo it first", nil, err)
	case errors.Is(err, candidate.ErrUnknownDecision):
		return middleware.NewAppError(fiber.StatusBadRequest, "decision must be shortlist, reject or undo", nil, err)
	default:
		return mapJobUsecaseError(err)
	}
}
