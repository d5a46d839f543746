package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondAPIError maps an error to the taxonomy at the handler boundary.
// 5xx detail is logged server-side and replaced with a generic message so
// internals never leak to clients.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	apiErr := apierr.From(err)
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "code", apiErr.Code, "error", err)
		msg = "internal server error"
	}
	c.JSON(apiErr.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: apiErr.Code}})
}

func RespondError(c *gin.Context, status int, code string, msg string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
