package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/turtacn/sample-app/pkg/errors"
)

// ErrorResponse is the JSON body of every error answered by the service.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// SendError renders err as an ErrorResponse and aborts the chain.
func SendError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Error:            appErr.Code,
		ErrorDescription: appErr.Description,
	})
}

// NotFound answers routes nothing else matched.
func NotFound(c *gin.Context) {
	SendError(c, errors.ErrNotFound)
}
