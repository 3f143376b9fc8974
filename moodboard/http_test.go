package moodboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPUploader_PostsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "pngbytes", string(body))
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"File uploaded successfully","file":{"id":"u1","filename":"1-2.png","originalName":"cat.png","path":"/uploads/1-2.png","mimeType":"image/png","size":8,"category":"image"}}`))
	}))
	defer srv.Close()

	up := NewHTTPUploader(srv.URL, time.Second)
	file, err := up.Upload(context.Background(), FileInput{Name: "cat.png", ContentType: "image/png", Body: strings.NewReader("pngbytes")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-2.png", file.Path)
	assert.Equal(t, int64(8), file.Size)
}

func TestHTTPUploader_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"File upload only supports PDF, Word documents, and images!"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPUploader(srv.URL, time.Second).Upload(context.Background(), FileInput{Name: "a.exe", Body: strings.NewReader("MZ")})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "File upload only supports")
}

func TestHTTPSyncer_PushAndPull(t *testing.T) {
	var stored []Item
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var it Item
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&it))
			stored = append(stored, it)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "item": it})
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "items": stored})
		}
	}))
	defer srv.Close()

	s := NewHTTPSyncer(srv.URL, "tok", time.Second)
	require.NoError(t, s.Push(context.Background(), Item{ID: "1", Kind: KindEmoji, Content: "🎉", Caption: "Party"}))

	items, err := s.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "🎉", items[0].Content)

	_, err = NewHTTPSyncer(srv.URL, "", time.Second).Pull(context.Background())
	assert.ErrorIs(t, err, ErrRejected)
}
