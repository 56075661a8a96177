package models

import (
	"fmt"
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaTypeFromMIME определяет тип медиа по MIME. Для неподдерживаемого типа возвращает пустую строку
func MediaTypeFromMIME(mime string) MediaType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(mime, "video/"):
		return MediaTypeVideo
	default:
		return ""
	}
}

// Media файл, прикрепленный к работе
type Media struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"item_id"`
	MediaType    MediaType `json:"media_type"`
	URL          string    `json:"url"`
	StoragePath  string    `json:"-"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Caption      *string   `json:"caption,omitempty"`
	Alt          *string   `json:"alt,omitempty"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных медиафайла
func (m *Media) Validate() error {
	var validationErrors []string

	if m.ItemID <= 0 {
		validationErrors = append(validationErrors, "item ID is required")
	}
	if m.URL == "" {
		validationErrors = append(validationErrors, "url is required")
	}
	if m.StoragePath == "" {
		validationErrors = append(validationErrors, "storage path is required")
	}

	switch m.MediaType {
	case MediaTypeImage, MediaTypeVideo:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid media type '%s', must be one of: [%s %s]",
				m.MediaType, MediaTypeImage, MediaTypeVideo))
	}

	if m.Caption != nil && len(*m.Caption) > 500 {
		validationErrors = append(validationErrors, "caption must be 500 characters or less")
	}
	if m.Alt != nil && len(*m.Alt) > 255 {
		validationErrors = append(validationErrors, "alt must be 255 characters or less")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
