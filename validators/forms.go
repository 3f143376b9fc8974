package validators

import (
	"strings"
)

// Interests are the apps a waitlist member wants to hear about.
type Interests struct {
	MemeSpace bool `json:"memeSpace"`
	MeetQ     bool `json:"meetQ"`
}

// ContactRequest is the waitlist form.
type ContactRequest struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email,max=254"`
	Message   string    `json:"message" validate:"required,max=5000"`
	Interests Interests `json:"interests"`
}

var contactMessages = messages{
	"name.required":    "Name is required",
	"email.required":   "Invalid email address",
	"email.email":      "Invalid email address",
	"message.required": "Message is required",
}

// ValidateContact checks the waitlist form; at least one interest must be selected.
func ValidateContact(req ContactRequest) (ContactRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	verr := &ValidationError{}
	check(req, contactMessages, verr)
	if !req.Interests.MemeSpace && !req.Interests.MeetQ {
		verr.add("interests", "Select at least one app")
	}
	return req, verr.orNil()
}

// LoginRequest carries credentials for a stateless credential check.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = messages{
	"username.required": "Username is required",
	"password.required": "Password is required",
}

// ValidateLogin requires both fields.
func ValidateLogin(req LoginRequest) (LoginRequest, error) {
	req.Username = strings.TrimSpace(req.Username)

	verr := &ValidationError{}
	check(req, loginMessages, verr)
	return req, verr.orNil()
}

const maxPasswordBytes = 72

// RegisterRequest creates an account. ConfirmPassword is optional; when sent it must match.
type RegisterRequest struct {
	Username        string  `json:"username" validate:"min=3,max=64"`
	Password        string  `json:"password" validate:"min=6,max=72"`
	ConfirmPassword *string `json:"confirmPassword"`
	DisplayName     string  `json:"displayName" validate:"max=128"`
}

var registerMessages = messages{
	"username.min": "Username must be at least 3 characters",
	"username.max": "Username must be at most 64 characters",
	"password.min": "Password must be at least 6 characters",
	"password.max":    "Password must be at most 72 characters",
	"displayName.max": "Display name must be at most 128 characters",
}

// ValidateRegister checks lengths and that the confirmation, when present, equals the password.
func ValidateRegister(req RegisterRequest) (RegisterRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	verr := &ValidationError{}
	check(req, registerMessages, verr)
	// bcrypt rejects passwords longer than 72 bytes
	if len(req.Password) > maxPasswordBytes {
		verr.add("password", "Password must be at most 72 bytes")
	}
	if req.ConfirmPassword != nil {
		switch {
		case *req.ConfirmPassword == "":
			verr.add("confirmPassword", "Please confirm your password")
		case *req.ConfirmPassword != req.Password:
			verr.add("confirmPassword", "Passwords do not match")
		}
	}
	return req, verr.orNil()
}

// TelegramMessageRequest is the text relayed to the team chat.
type TelegramMessageRequest struct {
	Message string `json:"message" validate:"required,min=3,max=1000"`
}

var telegramMessages = messages{
	"message.required": "Message is required",
	"message.min":      "Message must be at least 3 characters long",
	"message.max":      "Message cannot be longer than 1000 characters",
}

// ValidateTelegramMessage trims and bounds the relayed text.
func ValidateTelegramMessage(req TelegramMessageRequest) (TelegramMessageRequest, error) {
	req.Message = strings.TrimSpace(req.Message)

	verr := &ValidationError{}
	check(req, telegramMessages, verr)
	return req, verr.orNil()
}
