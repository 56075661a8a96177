package models

import (
	"time"
)

type Admin struct {
	ID           int64      `json:"id"`
	Login        string     `json:"login"`
	PasswordHash []byte     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
