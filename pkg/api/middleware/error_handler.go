package middleware

import (
	"errors"
	"net/http"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler recovers panics into a 500 response and renders errors that
// handlers recorded without writing a response.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"panic":  r,
				}).Error("recovered from panic")
				AbortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode == http.StatusOK {
			statusCode = http.StatusInternalServerError
		}
		AbortWithError(c, statusCode, "", c.Errors.Last().Error())
	}
}

// AbortWithError writes an ErrorResponse and stops the handler chain
func AbortWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	})
	c.Abort()
}

// AbortWithErrorDetails is AbortWithError with per-field details
func AbortWithErrorDetails(c *gin.Context, statusCode int, code, message string, details map[string]interface{}) {
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
		Details: details,
	})
	c.Abort()
}

// AbortWithBackendError relays a failed backend call. The backend's status is
// kept and the user-facing message is the one mapped by the client; transport
// failures become 502.
func AbortWithBackendError(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		AbortWithError(c, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	statusCode := apiErr.Status
	if statusCode == client.StatusNetwork {
		statusCode = http.StatusBadGateway
	}

	var details map[string]interface{}
	if apiErr.Detail != "" {
		details = map[string]interface{}{"backend": apiErr.Detail}
	}
	AbortWithErrorDetails(c, statusCode, "BACKEND_ERROR", apiErr.Message, details)
}
