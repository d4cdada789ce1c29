package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes body with the given status. A zero status means 200.
func JSON(ctx *gin.Context, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, body)
}

// Error writes an ErrorBody and aborts the remaining handlers.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
	})
}
