package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"resume-screener/internal/usecase"
)

// readUpload loads one multipart file into memory, refusing anything larger
// than limit bytes.
func readUpload(fh *multipart.FileHeader, limit int64) (usecase.Upload, error) {
	if limit > 0 && fh.Size > limit {
		return usecase.Upload{}, usecase.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return usecase.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return usecase.Upload{}, usecase.ErrFileTooLarge
	}

	return usecase.Upload{
		FileName: strings.TrimSpace(fh.Filename),
		MIMEType: strings.TrimSpace(fh.Header.Get("Content-Type")),
		Data:     data,
	}, nil
}
