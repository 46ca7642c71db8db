package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/auth"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

var (
	// errUnauthenticated is raised when a protected handler runs without a
	// user in the request context.
	errUnauthenticated = errors.New("user ID not found or invalid")

	// errBadRequest marks malformed input detected by the API layer itself.
	errBadRequest = errors.New("bad request")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Order
// matters: ServiceErrors wrap store sentinels, and a rejected input may
// carry a domain cause alongside ErrInvalidInput.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrScheduleFailed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Messages set
// by the service layer are shown verbatim; everything else gets a fixed
// message per status class.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	if msg, ok := service.UserMessage(err); ok {
		return msg
	}

	switch {
	case errors.Is(err, errUnauthenticated):
		return "User ID not found or invalid"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrUnitNotFound):
		return "Lexical unit not found"
	case errors.Is(err, store.ErrTranslationNotFound):
		return "Translation not found"
	case errors.Is(err, store.ErrPhraseNotFound):
		return "Phrase not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, service.ErrScheduleFailed):
		return "Failed to queue task."
	case errors.Is(err, errBadRequest):
		// API-layer messages are built from request shape only.
		return strings.TrimPrefix(err.Error(), errBadRequest.Error()+": ")
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. A non-empty fallback replaces the generic 5xx message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// badRequest builds an API-layer validation error whose text is shown to
// the client.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// SanitizeValidationError turns a request validation failure into a client
// message naming the first failing field without echoing the submitted value.
// Errors from a DTO's own Validate method are already client-safe.
func SanitizeValidationError(err error) string {
	if err == nil {
		return "Validation error"
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if len(verrs) == 0 {
			return "Validation error"
		}
		return fmt.Sprintf("Invalid %s: %s", verrs[0].Field(), getValidationTagMessage(verrs[0].Tag()))
	}
	return err.Error()
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte", "gt", "lt":
		return "out of range"
	case "oneof":
		return "invalid value"
	case "language":
		return "invalid language code"
	case "pos":
		return "invalid part of speech"
	case "lexical_category":
		return "invalid lexical category"
	case "cefr":
		return "invalid CEFR level"
	case "learning_status":
		return "invalid learning status"
	case "translation_type":
		return "invalid translation type"
	default:
		return "validation failed"
	}
}
