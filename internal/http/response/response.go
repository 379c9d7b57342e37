package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payback-backend/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps a service error onto the wire. Business errors carry
// their own status and code; anything else becomes a generic 500 so store
// detail never leaks to clients.
func RespondAppError(c *gin.Context, err error) {
	if apiErr, ok := apierr.As(err); ok {
		msg := apiErr.Error()
		if apiErr.Code == apierr.CodeInternal {
			msg = "internal server error"
		}
		c.JSON(apiErr.Status, ErrorEnvelope{
			Error: APIError{Message: msg, Code: apiErr.Code},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal server error", Code: apierr.CodeInternal},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
