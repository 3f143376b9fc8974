package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/mememates/utils"
	"github.com/cppla/mememates/validators"
)

// ContactController accepts waitlist submissions. Submissions are logged, not stored.
type ContactController struct{}

// NewContactController creates a ContactController.
func NewContactController() *ContactController {
	return &ContactController{}
}

// Submit validates the waitlist form.
func (c *ContactController) Submit(ctx *gin.Context) {
	var req validators.ContactRequest
	if !bindJSON(ctx, &req) {
		return
	}
	req, err := validators.ValidateContact(req)
	if respondInvalid(ctx, err) {
		return
	}

	utils.Logger.Info("waitlist submission",
		zap.String("email", req.Email),
		zap.Bool("meme_space", req.Interests.MemeSpace),
		zap.Bool("meet_q", req.Interests.MeetQ),
	)
	utils.Success(ctx, "Thank you for your interest! We'll be in touch soon.", nil)
}
