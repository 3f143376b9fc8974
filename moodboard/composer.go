// Package moodboard holds the client side mood board state machine and its HTTP adapters.
package moodboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultCategory     = "Visual Inspiration"
	NotesCategory       = "Notes"
	DefaultEmojiCaption = "Emoji Expression"
)

// Item kinds, matching the backend collection.
const (
	KindImage = "image"
	KindFile  = "file"
	KindEmoji = "emoji"
	KindText  = "text"
)

// Upload categories.
const (
	CategoryPDF      = "pdf"
	CategoryDocument = "document"
	CategoryImage    = "image"
)

var (
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrEmptyEmoji       = errors.New("no emoji selected")
	ErrEmptyNote        = errors.New("note is empty")
	ErrNoUploader       = errors.New("no uploader configured")
	ErrSyncDisabled     = errors.New("mood board sync is not enabled")
	ErrEmptyUpload      = errors.New("uploader returned no file")
)

// Item is one mood board entry.
type Item struct {
	ID       string `json:"id"`
	Kind     string `json:"type"`
	Content  string `json:"content"`
	Caption  string `json:"caption,omitempty"`
	Category string `json:"category,omitempty"`
}

// UploadedFile is the descriptor returned by the upload endpoint, plus the derived category.
type UploadedFile struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Category     string `json:"category"`
}

// FileInput is a local file handed to AddUpload.
type FileInput struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader stores a file and returns its descriptor.
type Uploader interface {
	Upload(ctx context.Context, file FileInput) (*UploadedFile, error)
}

// Syncer mirrors items to the backend collection.
type Syncer interface {
	Push(ctx context.Context, item Item) error
	Pull(ctx context.Context) ([]Item, error)
}

// Option configures a Composer.
type Option func(*Composer)

// WithSyncer enables backend sync. Without it the board lives only in memory.
func WithSyncer(s Syncer) Option {
	return func(c *Composer) { c.syncer = s }
}

// WithClock replaces time.Now for id generation.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// Composer accumulates mood board items. Items are append-only and kept in insertion order.
type Composer struct {
	mu        sync.Mutex
	uploader  Uploader
	syncer    Syncer
	now       func() time.Time
	items     []Item
	uploads   []UploadedFile
	uploading bool
	lastID    int64
}

// NewComposer creates an empty board. uploader may be nil when upload mode is unused.
func NewComposer(uploader Uploader, opts ...Option) *Composer {
	c := &Composer{uploader: uploader, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gallery returns the curated seed images.
func (c *Composer) Gallery() []GalleryImage {
	return Gallery()
}

// AddUpload uploads the file and appends an image or file item pointing at it.
// Only one upload may be in flight at a time.
func (c *Composer) AddUpload(ctx context.Context, file FileInput, caption, category string) (Item, error) {
	if c.uploader == nil {
		return Item{}, ErrNoUploader
	}

	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return Item{}, ErrUploadInProgress
	}
	c.uploading = true
	c.mu.Unlock()

	uploaded, err := c.uploader.Upload(ctx, file)

	c.mu.Lock()
	c.uploading = false
	if err != nil {
		c.mu.Unlock()
		return Item{}, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	if uploaded == nil {
		c.mu.Unlock()
		return Item{}, fmt.Errorf("upload %s: %w", file.Name, ErrEmptyUpload)
	}

	uploaded.Category = ClassifyMIME(uploaded.MimeType)
	kind := KindFile
	if uploaded.Category == CategoryImage {
		kind = KindImage
	}
	if caption == "" {
		caption = uploaded.OriginalName
	}
	item := c.appendLocked(kind, uploaded.Path, caption, category)
	c.uploads = append(c.uploads, *uploaded)
	c.mu.Unlock()

	return item, c.push(ctx, item)
}

// AddEmoji appends an emoji item. The caption defaults to "Emoji Expression".
func (c *Composer) AddEmoji(ctx context.Context, glyph, caption, category string) (Item, error) {
	if strings.TrimSpace(glyph) == "" {
		return Item{}, ErrEmptyEmoji
	}
	if caption == "" {
		caption = DefaultEmojiCaption
	}

	c.mu.Lock()
	item := c.appendLocked(KindEmoji, glyph, caption, category)
	c.mu.Unlock()

	return item, c.push(ctx, item)
}

// AddNote appends a text item in the Notes category.
func (c *Composer) AddNote(ctx context.Context, text string) (Item, error) {
	if strings.TrimSpace(text) == "" {
		return Item{}, ErrEmptyNote
	}

	c.mu.Lock()
	item := c.appendLocked(KindText, text, "", NotesCategory)
	c.mu.Unlock()

	return item, c.push(ctx, item)
}

// Items returns a copy of the board in insertion order.
func (c *Composer) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Uploads returns a copy of the files uploaded through this composer.
func (c *Composer) Uploads() []UploadedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]UploadedFile, len(c.uploads))
	copy(out, c.uploads)
	return out
}

// Uploading reports whether an upload is in flight.
func (c *Composer) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Restore loads the items stored on the backend in their stored order.
// Local items the backend does not have, such as ones whose push failed, are kept after them.
func (c *Composer) Restore(ctx context.Context) error {
	if c.syncer == nil {
		return ErrSyncDisabled
	}
	items, err := c.syncer.Pull(ctx)
	if err != nil {
		return fmt.Errorf("restore mood board: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make(map[string]struct{}, len(items))
	merged := append(make([]Item, 0, len(items)+len(c.items)), items...)
	for _, it := range items {
		stored[it.ID] = struct{}{}
	}
	for _, it := range c.items {
		if _, ok := stored[it.ID]; !ok {
			merged = append(merged, it)
		}
	}
	c.items = merged
	for _, it := range items {
		if n, err := strconv.ParseInt(it.ID, 10, 64); err == nil && n > c.lastID {
			c.lastID = n
		}
	}
	return nil
}

// ClassifyMIME maps a MIME type onto an upload category.
func ClassifyMIME(mimeType string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "pdf"):
		return CategoryPDF
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	default:
		return CategoryDocument
	}
}

// appendLocked must be called with c.mu held.
func (c *Composer) appendLocked(kind, content, caption, category string) Item {
	if category == "" {
		category = DefaultCategory
	}
	item := Item{
		ID:       c.nextIDLocked(),
		Kind:     kind,
		Content:  content,
		Caption:  caption,
		Category: category,
	}
	c.items = append(c.items, item)
	return item
}

// nextIDLocked returns a millisecond timestamp id, bumped so ids strictly increase.
func (c *Composer) nextIDLocked() string {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}

// push mirrors the item when sync is enabled. The local append stands even if the push fails.
func (c *Composer) push(ctx context.Context, item Item) error {
	if c.syncer == nil {
		return nil
	}
	if err := c.syncer.Push(ctx, item); err != nil {
		return fmt.Errorf("sync item %s: %w", item.ID, err)
	}
	return nil
}
