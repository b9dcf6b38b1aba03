package handler

// Error responses in this app are deliberately plain: pages either render,
// redirect, or answer a bare-text status. writeError is the single place
// where domain errors from the service layer get translated to HTTP codes,
// so handlers never hardcode a status per error kind.

import (
	"errors"
	"net/http"

	"github.com/davidrq/friendmap/internal/apperror"
)

// writeError maps a domain error to a plain-text HTTP response.
//
// errors.As walks the wrap chain (every service error wraps its apperror
// with %w), so the mapping works no matter how many layers added context.
// Unknown errors collapse to a generic 500; raw messages can leak SQL or
// file paths and never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		}
		http.Error(w, appErr.Message, status)
		return
	}

	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
