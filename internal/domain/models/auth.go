package models

type Session struct {
	AdminID     int64  `json:"admin_id"`
	Login       string `json:"login"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type TokenMeta struct {
	ID        string `json:"id"`
	AdminID   int64  `json:"admin_id"`
	Login     string `json:"login"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}
