package api

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Field limits enforced by the remote API.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Validation errors for item payloads.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title cannot exceed 100 characters")
	ErrDescriptionLimit = errors.New("description cannot exceed 500 characters")
)

// Item mirrors a record returned by /items.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemDTO is the payload for POST /items.
type CreateItemDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate mirrors the server's limits so forms can reject input early.
func (d CreateItemDTO) Validate() error {
	return validateFields(&d.Title, &d.Description, true)
}

// UpdateItemDTO is the payload for PUT /items/{id}. Nil fields are left out
// of the request body. The API replaces the whole item: title is required and
// an omitted description is stored as "", so editors send both fields.
type UpdateItemDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks only the fields that are set.
func (d UpdateItemDTO) Validate() error {
	return validateFields(d.Title, d.Description, false)
}

// ErrorEnvelope is the body the API sends with failure status codes.
type ErrorEnvelope struct {
	Detail any `json:"detail"`
}

// Health mirrors /health.
type Health struct {
	Status string `json:"status"`
}

// Healthy reports whether the API described itself as healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

func validateFields(title, description *string, requireTitle bool) error {
	if title != nil {
		n := utf8.RuneCountInString(*title)
		if n == 0 {
			return ErrEmptyTitle
		}
		if n > MaxTitleLength {
			return ErrTitleTooLong
		}
	} else if requireTitle {
		return ErrEmptyTitle
	}
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return ErrDescriptionLimit
	}
	return nil
}
