package models

import (
	"time"
)

// Section раздел портфолио (живопись, графика, ...). Порядок задается position
type Section struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Position       int       `json:"position"`
	IsVisible      bool      `json:"is_visible"`
	SEOTitle       *string   `json:"seo_title,omitempty"`
	SEODescription *string   `json:"seo_description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Item работа внутри раздела
type Item struct {
	ID            int64     `json:"id"`
	SectionID     int64     `json:"section_id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Year          *int      `json:"year,omitempty"`
	Type          string    `json:"type,omitempty"`
	Location      string    `json:"location,omitempty"`
	Collaborators string    `json:"collaborators,omitempty"`
	Description   string    `json:"description,omitempty"`
	Position      int       `json:"position"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SectionPage раздел вместе с опубликованными работами
type SectionPage struct {
	Section Section `json:"section"`
	Items   []Item  `json:"items"`
}

// ItemPage работа вместе с медиа
type ItemPage struct {
	Item  Item    `json:"item"`
	Media []Media `json:"media"`
}
