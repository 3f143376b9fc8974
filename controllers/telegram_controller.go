package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/mememates/relay"
	"github.com/cppla/mememates/utils"
	"github.com/cppla/mememates/validators"
)

// TelegramController relays user messages to the team chat.
type TelegramController struct {
	sender relay.Sender
}

// NewTelegramController creates a TelegramController.
func NewTelegramController(sender relay.Sender) *TelegramController {
	return &TelegramController{sender: sender}
}

// Send validates and forwards one message.
func (t *TelegramController) Send(ctx *gin.Context) {
	var req validators.TelegramMessageRequest
	if !bindJSON(ctx, &req) {
		return
	}
	req, err := validators.ValidateTelegramMessage(req)
	if respondInvalid(ctx, err) {
		return
	}

	if err := t.sender.Send(ctx.Request.Context(), req.Message); err != nil {
		if errors.Is(err, relay.ErrConfigurationMissing) {
			utils.Fail(ctx, http.StatusInternalServerError, "Telegram configuration is missing")
			return
		}
		utils.Logger.Error("telegram relay failed", zap.Error(err))
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to send Telegram message")
		return
	}

	utils.Success(ctx, "Message sent to Telegram", nil)
}
