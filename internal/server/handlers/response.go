// Package handlers exposes the station services over HTTP.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// respondBindError renders request decoding failures. Validator errors are
// reported per field with the failing tag.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Fields: fields})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
