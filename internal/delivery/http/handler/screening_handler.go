package handler

import (
	"errors"
	"strings"

	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/gateway"
	"resume-screener/internal/pkg/response"
	"resume-screener/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	screeningFormField  = "files"
	maxScreeningFileLen = 10 << 20
)

type ScreeningHandler struct {
	uc usecase.ScreeningUsecase
}

func NewScreeningHandler(uc usecase.ScreeningUsecase) *ScreeningHandler {
	return &ScreeningHandler{uc: uc}
}

// Screen runs one batch synchronously and answers with the per-file report.
// Progress is pushed over the websocket while the batch runs.
func (h *ScreeningHandler) Screen(c fiber.Ctx) error {
	userID, email, role, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "multipart form with files is required", nil, err)
	}
	headers := form.File[screeningFormField]
	if len(headers) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "at least one file is required", nil, nil)
	}

	// A file that cannot be read still takes its place in the batch and is
	// reported as a failed item.
	uploads := make([]usecase.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh, maxScreeningFileLen)
		if err != nil {
			up = usecase.Upload{
				FileName: strings.TrimSpace(fh.Filename),
				MIMEType: strings.TrimSpace(fh.Header.Get("Content-Type")),
				Err:      err,
			}
		}
		uploads = append(uploads, up)
	}

	report, err := h.uc.Run(c.Context(), gateway.Identity{UserID: userID, Email: email, Role: role}, jobID, uploads)
	if err != nil {
		return mapScreeningUsecaseError(err)
	}

	if report.Outcome == usecase.OutcomeFailed {
		return response.Error(c, fiber.StatusUnprocessableEntity, "no resume could be screened", report)
	}
	return response.Success(c, fiber.StatusOK, string(report.Outcome), report)
}

func mapScreeningUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrBatchInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "A screening batch is already running for this job", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "at least one file is required", nil, err)
	default:
		return mapJobUsecaseError(err)
	}
}
