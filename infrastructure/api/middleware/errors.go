package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/helixml/newsdesk/application/service"
	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/infrastructure/api/jsonapi"
	"github.com/helixml/newsdesk/internal/database"
)

var (
	// ErrAuthentication matches every AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")
	// ErrServer matches every ServerError.
	ErrServer = errors.New("server error")
)

// APIError is an error with an explicit HTTP status.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// NewValidationError creates a 400 APIError.
func NewValidationError(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, nil)
}

// Code returns the HTTP status.
func (e *APIError) Code() int { return e.code }

// Message returns the client facing message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the cause.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError reports a missing or invalid credential.
type AuthenticationError struct {
	message string
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{message: message}
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.message
}

// Is matches ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// ServerError reports an upstream or internal failure with a status.
type ServerError struct {
	statusCode int
	message    string
}

// NewServerError creates a ServerError.
func NewServerError(statusCode int, message string) *ServerError {
	return &ServerError{statusCode: statusCode, message: message}
}

// StatusCode returns the HTTP status.
func (e *ServerError) StatusCode() int { return e.statusCode }

// Message returns the client facing message.
func (e *ServerError) Message() string { return e.message }

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.statusCode, e.message)
}

// Is matches ErrServer.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes a JSON:API error document.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	status, title, detail := classify(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	WriteJSON(w, status, jsonapi.NewErrorResponse(
		jsonapi.NewError(strconv.Itoa(status), title, detail),
	))
}

func classify(err error) (int, string, string) {
	var (
		apiErr    *APIError
		authErr   *AuthenticationError
		serverErr *ServerError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code(), http.StatusText(apiErr.Code()), apiErr.Message()
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "Unauthorized", authErr.Error()
	case errors.As(err, &serverErr):
		return serverErr.StatusCode(), http.StatusText(serverErr.StatusCode()), serverErr.Message()
	case errors.Is(err, database.ErrNotFound), errors.Is(err, service.ErrIndustryNotFound):
		return http.StatusNotFound, "Not Found", err.Error()
	case errors.Is(err, news.ErrInvalidTimeRange),
		errors.Is(err, news.ErrInvalidArticle),
		errors.Is(err, service.ErrNothingToFetch),
		errors.Is(err, io.EOF),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return http.StatusBadRequest, "Bad Request", err.Error()
	}
	return http.StatusInternalServerError, "Internal Server Error", "internal server error"
}
