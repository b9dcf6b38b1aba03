package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/davidrq/friendmap/internal/upload"
)

// maxUploadMemory caps how much of a multipart body is buffered in memory
// before spilling to disk.
const maxUploadMemory = 10 << 20 // 10 MiB

// formImageURL extracts the optional "image" file from a multipart form and
// pushes it to the media host.
//
// This helper embodies the degrade-and-continue rule: no file, a broken
// part, or a failed upload all come back as "", logged but never an error.
// The record the image belongs to is written regardless.
func formImageURL(r *http.Request, uploader upload.Uploader, logger *slog.Logger) string {
	file, header, err := r.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logger.Warn("unreadable image field, continuing without image",
				slog.String("error", err.Error()),
			)
		}
		return ""
	}
	defer file.Close()

	if header.Filename == "" {
		return ""
	}

	url, err := uploader.Upload(r.Context(), file, header.Filename)
	if err != nil {
		logger.Warn("image upload failed, continuing without image",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		return ""
	}

	return url
}
