package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tubely/internal/domain"
	"tubely/internal/logger"
	"tubely/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Messages never include tool output.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "you are not the owner of this video"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: video/mp4"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyUpload):
		return http.StatusBadRequest, "EMPTY_UPLOAD", "uploaded file is empty"
	case errors.Is(err, domain.ErrIncompleteUpload):
		return http.StatusBadRequest, "INCOMPLETE_UPLOAD", "upload ended before the file was complete"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrProbeFailed):
		return http.StatusInternalServerError, "PROBE_FAILED", "video could not be inspected"
	case errors.Is(err, domain.ErrInvalidMediaMeta):
		return http.StatusInternalServerError, "INVALID_MEDIA", "video has no readable video stream"
	case errors.Is(err, domain.ErrOptimizationFailed):
		return http.StatusInternalServerError, "OPTIMIZATION_FAILED", "video processing failed"
	case errors.Is(err, domain.ErrRelocationFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "video upload to storage failed"
	case errors.Is(err, domain.ErrStorageIO):
		return http.StatusInternalServerError, "STORAGE_IO", "video could not be staged"
	case errors.Is(err, domain.ErrInvalidStorageRef):
		return http.StatusInternalServerError, "INVALID_STORAGE_REF", "stored video location is invalid"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logger.Log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("code", code).
			Msg("handler: request failed")
	}
	RespondError(c, status, code, msg)
}
