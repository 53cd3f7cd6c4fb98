package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

// HandleError maps coded domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		ValidationError(w, map[string]string{"error": message(err)})
	case apperror.CodeStateConflict:
		Conflict(w, message(err))
	case apperror.CodeNotFound:
		NotFound(w, message(err))
	case apperror.CodeForbidden:
		Forbidden(w, message(err))
	case apperror.CodeTransport:
		slog.Error("data service unavailable", "error", err)
		ServiceUnavailable(w, "HR data service is unavailable, try again later")
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// message returns the sentinel's own text, without the wrapped cause.
func message(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
