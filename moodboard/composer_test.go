package moodboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	file    *UploadedFile
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubUploader) Upload(ctx context.Context, file FileInput) (*UploadedFile, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.file == nil {
		return nil, nil
	}
	cp := *s.file
	return &cp, nil
}

type memSyncer struct {
	mu      sync.Mutex
	items   []Item
	pushErr error
}

func (m *memSyncer) Push(ctx context.Context, item Item) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *memSyncer) Pull(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.items...), nil
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t }
}

func TestGallery_SixSeedImages(t *testing.T) {
	c := NewComposer(nil)
	g := c.Gallery()
	require.Len(t, g, 6)
	assert.Equal(t, "Visual Identity", g[0].Category)
	assert.Equal(t, "Color Transitions", g[5].Category)

	g[0].Category = "changed"
	assert.Equal(t, "Visual Identity", Gallery()[0].Category)
}

func TestAddEmoji(t *testing.T) {
	c := NewComposer(nil)

	item, err := c.AddEmoji(context.Background(), "🎉", "Party", "")
	require.NoError(t, err)
	assert.Equal(t, KindEmoji, item.Kind)
	assert.Equal(t, "🎉", item.Content)
	assert.Equal(t, "Party", item.Caption)
	assert.Equal(t, DefaultCategory, item.Category)

	item, err = c.AddEmoji(context.Background(), "😂", "", "Humor")
	require.NoError(t, err)
	assert.Equal(t, DefaultEmojiCaption, item.Caption)
	assert.Equal(t, "Humor", item.Category)

	_, err = c.AddEmoji(context.Background(), "", "x", "")
	assert.ErrorIs(t, err, ErrEmptyEmoji)
	assert.Len(t, c.Items(), 2)
}

func TestAddNote(t *testing.T) {
	c := NewComposer(nil)

	_, err := c.AddNote(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyNote)

	item, err := c.AddNote(context.Background(), "bright colours")
	require.NoError(t, err)
	assert.Equal(t, KindText, item.Kind)
	assert.Equal(t, NotesCategory, item.Category)
	assert.Empty(t, item.Caption)
}

func TestItems_InsertionOrderAndIncreasingIDs(t *testing.T) {
	c := NewComposer(nil, WithClock(fixedClock()))
	ctx := context.Background()

	_, _ = c.AddNote(ctx, "one")
	_, _ = c.AddEmoji(ctx, "🔥", "", "")
	_, _ = c.AddNote(ctx, "three")

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "one", items[0].Content)
	assert.Equal(t, "🔥", items[1].Content)
	assert.Equal(t, "three", items[2].Content)

	var prev int64
	for _, it := range items {
		n, err := strconv.ParseInt(it.ID, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}

	items[0].Content = "mutated"
	assert.Equal(t, "one", c.Items()[0].Content)
}

func TestAddUpload_ClassifiesAndCaptions(t *testing.T) {
	up := &stubUploader{file: &UploadedFile{
		Filename:     "1-2.png",
		OriginalName: "cat.png",
		Path:         "/uploads/1-2.png",
		MimeType:     "image/png",
	}}
	c := NewComposer(up)

	item, err := c.AddUpload(context.Background(), FileInput{Name: "cat.png", Body: strings.NewReader("x")}, "", "")
	require.NoError(t, err)
	assert.Equal(t, KindImage, item.Kind)
	assert.Equal(t, "/uploads/1-2.png", item.Content)
	assert.Equal(t, "cat.png", item.Caption)
	assert.Equal(t, DefaultCategory, item.Category)

	up.file = &UploadedFile{OriginalName: "deck.pdf", Path: "/uploads/3-4.pdf", MimeType: "application/pdf"}
	item, err = c.AddUpload(context.Background(), FileInput{Name: "deck.pdf", Body: strings.NewReader("x")}, "Pitch", "Decks")
	require.NoError(t, err)
	assert.Equal(t, KindFile, item.Kind)
	assert.Equal(t, "Pitch", item.Caption)

	uploads := c.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, CategoryImage, uploads[0].Category)
	assert.Equal(t, CategoryPDF, uploads[1].Category)
}

func TestAddUpload_SecondUploadWhileInFlight(t *testing.T) {
	up := &stubUploader{
		file:    &UploadedFile{OriginalName: "a.gif", Path: "/uploads/a.gif", MimeType: "image/gif"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewComposer(up)

	done := make(chan error, 1)
	go func() {
		_, err := c.AddUpload(context.Background(), FileInput{Name: "a.gif", Body: strings.NewReader("x")}, "", "")
		done <- err
	}()

	<-up.started
	assert.True(t, c.Uploading())
	_, err := c.AddUpload(context.Background(), FileInput{Name: "b.gif", Body: strings.NewReader("x")}, "", "")
	assert.ErrorIs(t, err, ErrUploadInProgress)

	close(up.release)
	require.NoError(t, <-done)
	assert.False(t, c.Uploading())
	assert.Len(t, c.Items(), 1)
}

func TestAddUpload_FailureLeavesBoardUnchanged(t *testing.T) {
	c := NewComposer(&stubUploader{err: errors.New("boom")})

	_, err := c.AddUpload(context.Background(), FileInput{Name: "a.png"}, "", "")
	require.Error(t, err)
	assert.Empty(t, c.Items())
	assert.False(t, c.Uploading())

	_, err = NewComposer(nil).AddUpload(context.Background(), FileInput{Name: "a.png"}, "", "")
	assert.ErrorIs(t, err, ErrNoUploader)
}

func TestClassifyMIME(t *testing.T) {
	assert.Equal(t, CategoryPDF, ClassifyMIME("application/pdf"))
	assert.Equal(t, CategoryImage, ClassifyMIME("image/jpeg"))
	assert.Equal(t, CategoryDocument, ClassifyMIME("application/msword"))
}

func TestSync_PushAndRestore(t *testing.T) {
	syncer := &memSyncer{}
	ctx := context.Background()

	c := NewComposer(nil, WithSyncer(syncer), WithClock(fixedClock()))
	_, err := c.AddEmoji(ctx, "🎉", "Party", "")
	require.NoError(t, err)
	_, err = c.AddNote(ctx, "remember this")
	require.NoError(t, err)

	reloaded := NewComposer(nil, WithSyncer(syncer), WithClock(fixedClock()))
	require.NoError(t, reloaded.Restore(ctx))
	assert.Equal(t, c.Items(), reloaded.Items())

	next, err := reloaded.AddNote(ctx, "after reload")
	require.NoError(t, err)
	last, _ := strconv.ParseInt(c.Items()[1].ID, 10, 64)
	n, _ := strconv.ParseInt(next.ID, 10, 64)
	assert.Greater(t, n, last)
}

func TestSync_PushFailureKeepsLocalItem(t *testing.T) {
	c := NewComposer(nil, WithSyncer(&memSyncer{pushErr: errors.New("offline")}))

	_, err := c.AddEmoji(context.Background(), "🎉", "", "")
	require.Error(t, err)
	assert.Len(t, c.Items(), 1)
}

func TestRestore_KeepsUnsyncedLocalItems(t *testing.T) {
	syncer := &memSyncer{}
	ctx := context.Background()

	c := NewComposer(nil, WithSyncer(syncer), WithClock(fixedClock()))
	stored, err := c.AddEmoji(ctx, "🎉", "Party", "")
	require.NoError(t, err)

	syncer.pushErr = errors.New("offline")
	local, err := c.AddNote(ctx, "not pushed yet")
	require.Error(t, err)

	syncer.pushErr = nil
	require.NoError(t, c.Restore(ctx))
	assert.Equal(t, []Item{stored, local}, c.Items())

	// restoring again does not duplicate anything
	require.NoError(t, c.Restore(ctx))
	assert.Len(t, c.Items(), 2)
}

func TestAddUpload_NilDescriptor(t *testing.T) {
	c := NewComposer(&stubUploader{})

	_, err := c.AddUpload(context.Background(), FileInput{Name: "cat.png", ContentType: "image/png", Body: strings.NewReader("x")}, "", "")
	assert.ErrorIs(t, err, ErrEmptyUpload)
	assert.Empty(t, c.Items())
	assert.False(t, c.Uploading())
}

func TestRestore_WithoutSyncer(t *testing.T) {
	assert.ErrorIs(t, NewComposer(nil).Restore(context.Background()), ErrSyncDisabled)
}
