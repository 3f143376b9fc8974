package models

import "time"

// File categories used by the mood board to pick a preview.
const (
	FileCategoryPDF      = "pdf"
	FileCategoryDocument = "document"
	FileCategoryImage    = "image"
)

// UploadedFile records a stored upload. Rows are never updated or deleted.
type UploadedFile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Filename     string    `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	FilePath     string    `gorm:"size:1024;not null" json:"-"` // filesystem path
	URL          string    `gorm:"size:1024;not null" json:"path"`
	MimeType     string    `gorm:"size:128;not null" json:"mimeType"`
	Size         int64     `gorm:"not null" json:"size"`
	Category     string    `gorm:"size:16;not null" json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
}
