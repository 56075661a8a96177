package dto

import "portfolio/internal/domain/models"

type InfoEntryInput struct {
	Kind     string  `json:"kind" validate:"required,info_kind"`
	Title    string  `json:"title" validate:"required,max=255"`
	Subtitle string  `json:"subtitle,omitempty" validate:"max=255"`
	Year     *int    `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	URL      *string `json:"url,omitempty" validate:"omitempty,url"`
}

func (in *InfoEntryInput) ToDomain() models.InfoEntry {
	return models.InfoEntry{
		Kind:     models.InfoKind(in.Kind),
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Year:     in.Year,
		URL:      in.URL,
	}
}

type AboutInput struct {
	Body     string  `json:"body"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,max=2048"`
}
