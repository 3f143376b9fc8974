package moodboard

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrRejected is returned when the backend answers with a non-2xx status.
var ErrRejected = errors.New("request rejected by server")

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	File    *UploadedFile  `json:"file"`
	Item    *Item          `json:"item"`
	Items   []Item         `json:"items"`
	Errors  []fieldMessage `json:"errors"`
}

type fieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)
}

// HTTPUploader posts files to /api/upload.
type HTTPUploader struct {
	client *resty.Client
}

// NewHTTPUploader creates an uploader for the server at baseURL.
func NewHTTPUploader(baseURL string, timeout time.Duration) *HTTPUploader {
	return &HTTPUploader{client: newClient(baseURL, timeout)}
}

// Upload sends the file as the multipart field "file".
func (u *HTTPUploader) Upload(ctx context.Context, file FileInput) (*UploadedFile, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Name)))
	}

	var out envelope
	resp, err := u.client.R().
		SetContext(ctx).
		SetMultipartField("file", filepath.Base(file.Name), contentType, file.Body).
		SetResult(&out).
		SetError(&out).
		Post("/api/upload")
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	if err := checkResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.File == nil {
		return nil, fmt.Errorf("upload response without file descriptor")
	}
	return out.File, nil
}

// HTTPSyncer mirrors items to /api/moodboard/items using a bearer token from login.
type HTTPSyncer struct {
	client *resty.Client
	token  string
}

// NewHTTPSyncer creates a syncer for the server at baseURL.
func NewHTTPSyncer(baseURL, token string, timeout time.Duration) *HTTPSyncer {
	return &HTTPSyncer{client: newClient(baseURL, timeout), token: strings.TrimSpace(token)}
}

// Push stores one item. Re-pushing an item id already stored is accepted by the server.
func (s *HTTPSyncer) Push(ctx context.Context, item Item) error {
	var out envelope
	resp, err := s.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(item).
		SetResult(&out).
		SetError(&out).
		Post("/api/moodboard/items")
	if err != nil {
		return fmt.Errorf("push request: %w", err)
	}
	return checkResponse(resp, &out)
}

// Pull loads the stored items in insertion order.
func (s *HTTPSyncer) Pull(ctx context.Context) ([]Item, error) {
	var out envelope
	resp, err := s.authedRequest(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/api/moodboard/items")
	if err != nil {
		return nil, fmt.Errorf("pull request: %w", err)
	}
	if err := checkResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return []Item{}, nil
	}
	return out.Items, nil
}

func (s *HTTPSyncer) authedRequest(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if s.token != "" {
		req.SetHeader("Authorization", "Bearer "+s.token)
	}
	return req
}

func checkResponse(resp *resty.Response, out *envelope) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	msg := out.Message
	if msg == "" && len(out.Errors) > 0 {
		msg = out.Errors[0].Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrRejected, resp.StatusCode(), msg)
}
