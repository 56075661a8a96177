package dto

import "portfolio/internal/domain/models"

type NewsInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Slug        string   `json:"slug" validate:"required,slug,max=255"`
	Body        string   `json:"body"`
	CoverURL    *string  `json:"cover_url,omitempty" validate:"omitempty,max=2048"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,max=64"`
	IsPublished bool     `json:"is_published"`
}

func (in *NewsInput) ToDomain() models.News {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.News{
		Title:       in.Title,
		Slug:        in.Slug,
		Body:        in.Body,
		CoverURL:    in.CoverURL,
		Tags:        tags,
		IsPublished: in.IsPublished,
	}
}

type NewsListQuery struct {
	Page    int    `query:"page" validate:"omitempty,gte=1"`
	PerPage int    `query:"per_page" validate:"omitempty,gte=1,lte=100"`
	Tag     string `query:"tag" validate:"omitempty,max=64"`
}

type NewsPage struct {
	Items   []models.News `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
