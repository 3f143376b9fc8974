package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mememates/utils"
	"github.com/cppla/mememates/validators"
)

// bindJSON decodes the body into out. An empty body leaves out zero valued so the
// validators report the missing fields.
func bindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		utils.Fail(ctx, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// respondInvalid writes the field errors when err is a validation failure.
func respondInvalid(ctx *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		utils.ValidationFailed(ctx, verr.Fields)
		return true
	}
	utils.Fail(ctx, http.StatusBadRequest, err.Error())
	return true
}

func internalError(ctx *gin.Context) {
	utils.Fail(ctx, http.StatusInternalServerError, "An unexpected error occurred")
}
