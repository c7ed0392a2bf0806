package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standardized API envelope: code mirrors the HTTP status
// (200 on success), message is human-readable, data carries the payload.
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success sends a 200 response wrapping the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Fail sends an error response for the given status and error code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, Response{
		Code:    statusCode,
		Message: GetMessage(code),
	})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, Response{
		Code:    statusCode,
		Message: GetMessage(code),
		Fields:  fields,
	})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, Response{
		Code:    statusCode,
		Message: GetMessage(code),
	})
}
