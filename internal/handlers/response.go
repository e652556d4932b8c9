package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/overruled/mocktrial-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps the error taxonomy onto HTTP statuses in one place.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := apierr.KindOf(err)
	switch kind {
	case apierr.KindValidation:
		status = http.StatusBadRequest
	case apierr.KindNotFound:
		status = http.StatusNotFound
	case apierr.KindConcurrentModification:
		status = http.StatusConflict
	case apierr.KindGenerationFailed:
		status = http.StatusBadGateway
	case apierr.KindStorage:
		status = http.StatusInternalServerError
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: kind.String()}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
