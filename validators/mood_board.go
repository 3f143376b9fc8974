package validators

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// UploadsPathPrefix is where stored uploads are served from.
const UploadsPathPrefix = "/uploads/"

// NotesCategory is the category given to free text notes.
const NotesCategory = "Notes"

var textPolicy = bluemonday.StrictPolicy()

// stripMarkup drops tags but keeps the text as typed; the policy entity-encodes what it keeps.
func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// MoodBoardItemRequest is a client composed mood board item pushed for storage.
type MoodBoardItemRequest struct {
	ID       string `json:"id" validate:"required,max=64"`
	Type     string `json:"type" validate:"required,oneof=image file emoji text"`
	Content  string `json:"content" validate:"required,max=2048"`
	Caption  string `json:"caption" validate:"max=255"`
	Category string `json:"category" validate:"max=255"`
}

var moodBoardMessages = messages{
	"id.required":      "Item id is required",
	"type.required":    "Item type is required",
	"type.oneof":       "Item type must be one of image, file, emoji, text",
	"content.required": "Content is required",
}

// ValidateMoodBoardItem strips markup from free text and checks that uploaded kinds point at a stored file.
func ValidateMoodBoardItem(req MoodBoardItemRequest) (MoodBoardItemRequest, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Type = strings.TrimSpace(req.Type)
	req.Content = stripMarkup(req.Content)
	req.Caption = stripMarkup(req.Caption)
	req.Category = stripMarkup(req.Category)

	verr := &ValidationError{}
	check(req, moodBoardMessages, verr)

	switch req.Type {
	case "image", "file":
		name := strings.TrimPrefix(req.Content, UploadsPathPrefix)
		if !strings.HasPrefix(req.Content, UploadsPathPrefix) || name == "" || strings.ContainsAny(name, `/\`) {
			verr.add("content", "Content must reference an uploaded file")
		}
	case "text":
		if req.Category == "" {
			req.Category = NotesCategory
		}
	}
	return req, verr.orNil()
}
