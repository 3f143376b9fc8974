package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/mememates/config"
)

func newTestTelegram(url, token, chatID string) *Telegram {
	return NewTelegram(config.AppConfig{
		TelegramAPIURL:     url,
		TelegramBotToken:   token,
		TelegramChatID:     chatID,
		TelegramTimeoutSec: 1,
	})
}

func TestSend_MissingConfigurationMakesNoCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	for _, tg := range []*Telegram{
		newTestTelegram(srv.URL, "", "42"),
		newTestTelegram(srv.URL, "abc", ""),
		newTestTelegram(srv.URL, "  ", "  "),
	} {
		err := tg.Send(context.Background(), "hello there")
		assert.ErrorIs(t, err, ErrConfigurationMissing)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSend_PostsChatIDAndText(t *testing.T) {
	var got sendMessageRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	tg := newTestTelegram(srv.URL, "123:secret", "-100200")
	require.NoError(t, tg.Send(context.Background(), "hello there"))

	assert.Equal(t, "/bot123:secret/sendMessage", path)
	assert.Equal(t, "-100200", got.ChatID)
	assert.Equal(t, "hello there", got.Text)
}

func TestSend_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := newTestTelegram(srv.URL, "t", "1").Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSend_OKFalseWith200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	err := newTestTelegram(srv.URL, "t", "1").Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestSend_TimeoutIsDeliveryFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	tg := newTestTelegram(srv.URL, "secret-token", "1")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := tg.Send(ctx, "hello")
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.NotContains(t, err.Error(), "secret-token")
}
