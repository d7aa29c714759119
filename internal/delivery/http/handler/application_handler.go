package handler

import (
	"errors"

	"resume-screener/internal/delivery/http/dto"
	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/gateway"
	"resume-screener/internal/pkg/response"
	"resume-screener/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const applicationFormField = "resume"

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	userID, email, role, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	}

	fh, err := c.FormFile(applicationFormField)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume file is required", nil, err)
	}
	up, err := readUpload(fh, usecase.MaxApplicationFileSize)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	cand, err := h.uc.Apply(c.Context(), gateway.Identity{UserID: userID, Email: email, Role: role}, jobID, usecase.ApplicationInput{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Phone: c.FormValue("phone"),
		File:  up,
	})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "application submitted", dto.NewCandidateResponse(cand))
}

func mapApplicationUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrFileTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "File size must be less than 5MB", nil, err)
	case errors.Is(err, usecase.ErrUnsupportedFile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please upload a PDF, DOC, DOCX or TXT file", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Only job seekers can apply", nil, err)
	default:
		return mapJobUsecaseError(err)
	}
}
