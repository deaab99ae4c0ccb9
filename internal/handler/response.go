package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkhaus/studio-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps an application error to its HTTP status. Conflicts keep
// their details (the competing appointments) so clients can offer alternative
// slots.
func RespondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), gin.H{
			"status":  "error",
			"message": appErr.Message,
			"details": appErr.Details,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "internal server error",
	})
}
