package storage

import "errors"

var (
	ErrNotFound      = errors.New("some records not found")
	ErrScopeMismatch = errors.New("records belong to different parents")
	ErrDuplicateID   = errors.New("duplicate id in order list")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrAdminNotFound = errors.New("admin not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
