package dto

import "portfolio/internal/domain/models"

type SectionInput struct {
	Slug           string  `json:"slug" validate:"required,slug,max=255"`
	Name           string  `json:"name" validate:"required,max=255"`
	IsVisible      *bool   `json:"is_visible,omitempty"`
	SEOTitle       *string `json:"seo_title,omitempty" validate:"omitempty,max=255"`
	SEODescription *string `json:"seo_description,omitempty" validate:"omitempty,max=1000"`
}

// ToDomain переносит поля в модель. Раздел по умолчанию видим
func (in *SectionInput) ToDomain() models.Section {
	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}

	return models.Section{
		Slug:           in.Slug,
		Name:           in.Name,
		IsVisible:      visible,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
	}
}

type ItemInput struct {
	// SectionID при обновлении переносит работу в другой раздел. При создании берется из пути
	SectionID     int64  `json:"section_id,omitempty" validate:"omitempty,gt=0"`
	Slug          string `json:"slug" validate:"required,slug,max=255"`
	Title         string `json:"title" validate:"required,max=255"`
	Year          *int   `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Type          string `json:"type,omitempty" validate:"max=255"`
	Location      string `json:"location,omitempty" validate:"max=255"`
	Collaborators string `json:"collaborators,omitempty"`
	Description   string `json:"description,omitempty"`
	IsPublished   bool   `json:"is_published"`
}

func (in *ItemInput) ToDomain() models.Item {
	return models.Item{
		SectionID:     in.SectionID,
		Slug:          in.Slug,
		Title:         in.Title,
		Year:          in.Year,
		Type:          in.Type,
		Location:      in.Location,
		Collaborators: in.Collaborators,
		Description:   in.Description,
		IsPublished:   in.IsPublished,
	}
}
