package models

import (
	"time"
)

type News struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type InfoKind string

const (
	InfoKindAward      InfoKind = "award"
	InfoKindFair       InfoKind = "fair"
	InfoKindExhibition InfoKind = "exhibition"
	InfoKindContact    InfoKind = "contact"
	InfoKindLink       InfoKind = "link"
)

var infoKinds = []InfoKind{InfoKindAward, InfoKindFair, InfoKindExhibition, InfoKindContact, InfoKindLink}

func (k InfoKind) Valid() bool {
	for _, known := range infoKinds {
		if k == known {
			return true
		}
	}
	return false
}

func InfoKindNames() []string {
	names := make([]string, 0, len(infoKinds))
	for _, k := range infoKinds {
		names = append(names, string(k))
	}
	return names
}

// InfoEntry строка информационной страницы: награда, ярмарка, выставка, контакт или внешняя ссылка.
// Упорядочена внутри своего kind
type InfoEntry struct {
	ID        int64     `json:"id"`
	Kind      InfoKind  `json:"kind"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Year      *int      `json:"year,omitempty"`
	URL       *string   `json:"url,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type About struct {
	Body      string    `json:"body"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
