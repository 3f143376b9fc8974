package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cppla/mememates/models"
	"github.com/cppla/mememates/repository"
	"github.com/cppla/mememates/utils"
)

// MaxUploadSize is the largest accepted upload, 10 MiB.
const MaxUploadSize int64 = 10 << 20

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

const createAttempts = 5

var (
	ErrNoFileProvided      = errors.New("no file uploaded")
	ErrFileTooLarge        = errors.New("file exceeds the 10MB limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

var uploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mememates_uploads_total",
		Help: "Mood board uploads by result",
	},
	[]string{"result"},
)

type fileKind struct {
	mimes    []string
	category string
	// sniffed lists detected content types accepted for this extension
	sniffed []string
}

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeGIF  = "image/gif"
)

var allowedExtensions = map[string]fileKind{
	".pdf":  {mimes: []string{mimePDF}, category: models.FileCategoryPDF, sniffed: []string{mimePDF}},
	".doc":  {mimes: []string{mimeDOC}, category: models.FileCategoryDocument, sniffed: []string{mimeDOC, "application/x-ole-storage"}},
	".docx": {mimes: []string{mimeDOCX}, category: models.FileCategoryDocument, sniffed: []string{mimeDOCX, "application/zip"}},
	".jpg":  {mimes: []string{mimeJPEG}, category: models.FileCategoryImage, sniffed: []string{mimeJPEG}},
	".jpeg": {mimes: []string{mimeJPEG}, category: models.FileCategoryImage, sniffed: []string{mimeJPEG}},
	".png":  {mimes: []string{mimePNG}, category: models.FileCategoryImage, sniffed: []string{mimePNG}},
	".gif":  {mimes: []string{mimeGIF}, category: models.FileCategoryImage, sniffed: []string{mimeGIF}},
}

// ContentTypeFor returns the served content type of a stored file name, or "" if the extension is not allowed.
func ContentTypeFor(filename string) string {
	kind, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return ""
	}
	return kind.mimes[0]
}

// UploadInput is one file taken from a multipart request.
type UploadInput struct {
	OriginalName string
	DeclaredMIME string
	// Size is the client reported size; the copy enforces the limit regardless
	Size int64
	Body io.Reader
}

// Uploader stores files under a server controlled directory with generated names.
type Uploader struct {
	dir       string
	urlPrefix string
	repo      repository.UploadRepository
	now       func() time.Time
}

// NewUploader creates the storage directory if needed.
func NewUploader(dir string, repo repository.UploadRepository) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &Uploader{dir: dir, urlPrefix: "/uploads/", repo: repo, now: time.Now}, nil
}

// Dir is the storage directory.
func (u *Uploader) Dir() string {
	return u.dir
}

// Save validates and stores the file, records it and returns its descriptor.
// It either fully succeeds or leaves nothing behind on disk.
func (u *Uploader) Save(ctx context.Context, in UploadInput) (*models.UploadedFile, error) {
	file, err := u.save(ctx, in)
	switch {
	case err == nil:
		uploadsTotal.WithLabelValues("stored").Inc()
	case errors.Is(err, ErrFileTooLarge):
		uploadsTotal.WithLabelValues("too_large").Inc()
	case errors.Is(err, ErrUnsupportedFileType):
		uploadsTotal.WithLabelValues("unsupported").Inc()
	default:
		uploadsTotal.WithLabelValues("error").Inc()
	}
	return file, err
}

func (u *Uploader) save(ctx context.Context, in UploadInput) (*models.UploadedFile, error) {
	if in.Body == nil {
		return nil, ErrNoFileProvided
	}
	if in.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	originalName := filepath.Base(strings.ReplaceAll(in.OriginalName, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(originalName))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFileType, ext)
	}
	declared := normalizeMIME(in.DeclaredMIME)
	if !contains(kind.mimes, declared) {
		return nil, fmt.Errorf("%w: declared type %q does not match %s", ErrUnsupportedFileType, declared, ext)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if detected := mimetype.Detect(head); !sniffMatches(detected, kind.sniffed) {
		return nil, fmt.Errorf("%w: content looks like %s", ErrUnsupportedFileType, detected.String())
	}

	out, storedName, err := u.createUnique(originalName)
	if err != nil {
		return nil, err
	}
	dstPath := filepath.Join(u.dir, storedName)

	lr := &io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), in.Body), N: MaxUploadSize + 1}
	written, err := io.Copy(out, lr)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if written > MaxUploadSize {
		_ = os.Remove(dstPath)
		return nil, ErrFileTooLarge
	}

	record := &models.UploadedFile{
		ID:           uuid.NewString(),
		Filename:     storedName,
		OriginalName: originalName,
		FilePath:     dstPath,
		URL:          u.urlPrefix + storedName,
		MimeType:     declared,
		Size:         written,
		Category:     kind.category,
		CreatedAt:    u.now(),
	}
	if err := u.repo.Record(ctx, record); err != nil {
		_ = os.Remove(dstPath)
		return nil, err
	}
	return record, nil
}

// createUnique opens a new file with O_EXCL so an existing upload is never overwritten.
func (u *Uploader) createUnique(originalName string) (*os.File, string, error) {
	for i := 0; i < createAttempts; i++ {
		name := utils.StoredFilename(originalName, u.now())
		f, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload file: no free name after %d attempts", createAttempts)
}

func normalizeMIME(declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mt
}

func sniffMatches(detected *mimetype.MIME, accepted []string) bool {
	for _, a := range accepted {
		if detected.Is(a) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
