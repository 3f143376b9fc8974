// Package relay forwards user composed messages to a Telegram chat through the Bot API.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cppla/mememates/config"
	"github.com/cppla/mememates/utils"
)

var (
	// ErrConfigurationMissing is returned without any outbound call when the bot token or chat id is unset.
	ErrConfigurationMissing = errors.New("telegram configuration is missing")
	// ErrDeliveryFailed covers transport errors, non-2xx replies and ok:false answers.
	ErrDeliveryFailed = errors.New("telegram delivery failed")
)

var messagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mememates_relay_messages_total",
		Help: "Telegram relay attempts by result",
	},
	[]string{"result"},
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// Telegram is a single attempt Bot API client.
type Telegram struct {
	client *resty.Client
	token  string
	chatID string
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegram builds a relay from the application config. A missing token or chat id is not an
// error here; Send reports it so the server can still start.
func NewTelegram(cfg config.AppConfig) *Telegram {
	timeout := time.Duration(cfg.TelegramTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.TelegramAPIURL, "/")).
		SetTimeout(timeout)

	return &Telegram{
		client: client,
		token:  strings.TrimSpace(cfg.TelegramBotToken),
		chatID: strings.TrimSpace(cfg.TelegramChatID),
	}
}

// Configured reports whether both credentials are present.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

// Send posts the message to the configured chat once. There is no retry.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if !t.Configured() {
		messagesTotal.WithLabelValues("unconfigured").Inc()
		return ErrConfigurationMissing
	}

	var out botResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendMessageRequest{ChatID: t.chatID, Text: message}).
		SetResult(&out).
		SetError(&out).
		Post("/bot" + t.token + "/sendMessage")
	if err != nil {
		messagesTotal.WithLabelValues("failed").Inc()
		// the request URL carries the token, keep it out of the log
		utils.Logger.Warn("telegram request failed", zap.String("error", redact(err.Error(), t.token)))
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, redact(err.Error(), t.token))
	}
	if resp.IsError() || !out.OK {
		messagesTotal.WithLabelValues("failed").Inc()
		utils.Logger.Warn("telegram rejected message",
			zap.Int("status", resp.StatusCode()),
			zap.String("description", out.Description),
		)
		return fmt.Errorf("%w: status %d %s", ErrDeliveryFailed, resp.StatusCode(), out.Description)
	}

	messagesTotal.WithLabelValues("sent").Inc()
	return nil
}

func redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "<token>")
}
