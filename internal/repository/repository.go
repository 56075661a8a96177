package repository

import (
	"portfolio/internal/storage/postgresql"
)

type Repository struct {
	Sections *SectionRepo
	Items    *ItemRepo
	Media    *MediaRepo
	News     *NewsRepo
	Info     *InfoRepo
	Admins   *AdminRepo
}

func NewRepository(st *postgresql.Storage) *Repository {
	db := st.Pool()
	pos := NewPositionedStore(db)

	return &Repository{
		Sections: NewSectionRepository(db, pos),
		Items:    NewItemRepository(db, pos),
		Media:    NewMediaRepository(db, pos),
		News:     NewNewsRepository(db),
		Info:     NewInfoRepository(db, pos),
		Admins:   NewAdminRepository(db),
	}
}
