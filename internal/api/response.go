package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// renderError maps domain errors to HTTP responses. Everything the core
// recovers into a structured result gets a structured code here; only
// backend outages fall through to 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		code   = "internal_error"
	)

	switch {
	case errors.Is(err, texturelib.ErrTextureNotFound),
		errors.Is(err, texturelib.ErrUserNotFound),
		errors.Is(err, texturelib.ErrPlayerNotFound),
		errors.Is(err, texturelib.ErrBlobNotFound),
		errors.Is(err, texturelib.ErrClosetEntryNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, texturelib.ErrPermissionDenied):
		status, code = http.StatusForbidden, "permission_denied"
	case errors.Is(err, texturelib.ErrInsufficientScore):
		status, code = http.StatusPaymentRequired, "insufficient_score"
	case errors.Is(err, texturelib.ErrInvalidInput):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, texturelib.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: code, Message: message})
}
