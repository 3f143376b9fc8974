package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/mememates/validators"
)

// JSONResponse defines the uniform envelope for API responses. Payload keys are merged
// next to success/message so clients read e.g. body.user or body.file directly.
type JSONResponse map[string]interface{}

// Respond writes the envelope with the given status code.
func Respond(ctx *gin.Context, status int, success bool, message string, payload gin.H) {
	body := JSONResponse{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	ctx.JSON(status, body)
}

// Success returns a 200 success envelope.
func Success(ctx *gin.Context, message string, payload gin.H) {
	Respond(ctx, 200, true, message, payload)
}

// Fail returns an error envelope with a human readable message.
func Fail(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, false, message, nil)
}

// ValidationFailed returns a 400 envelope carrying field level errors.
func ValidationFailed(ctx *gin.Context, errs []validators.FieldError) {
	Respond(ctx, 400, false, "", gin.H{"errors": errs})
}
