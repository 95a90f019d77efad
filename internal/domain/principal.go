package domain

import "time"

// Principal is the verified identity behind a request. It is never persisted.
type Principal struct {
	Subject   string         `json:"sub"`
	Email     string         `json:"email"`
	ExpiresAt time.Time      `json:"exp"`
	Claims    map[string]any `json:"-"`
}

// Owns reports whether the principal is the holder of email.
func (p *Principal) Owns(email string) bool {
	return p != nil && SameEmail(p.Email, email)
}
