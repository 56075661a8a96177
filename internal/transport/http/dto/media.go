package dto

import (
	"mime/multipart"
)

type MediaUploadInput struct {
	ItemID       int64                 `json:"item_id" validate:"required,gt=0"`
	File         *multipart.FileHeader `json:"-" form:"file" validate:"required"`
	Caption      *string               `json:"caption,omitempty" form:"caption" validate:"omitempty,max=500"`
	Alt          *string               `json:"alt,omitempty" form:"alt" validate:"omitempty,max=255"`
	ThumbnailURL *string               `json:"thumbnail_url,omitempty" form:"thumbnail_url" validate:"omitempty,max=2048"`
}

type MediaUpdateInput struct {
	Caption      *string `json:"caption,omitempty" validate:"omitempty,max=500"`
	Alt          *string `json:"alt,omitempty" validate:"omitempty,max=255"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" validate:"omitempty,max=2048"`
}
