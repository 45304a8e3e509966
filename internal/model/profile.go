package model

import "time"

type Profile struct {
	ID        string
	Email     string
	IsPremium bool
	CreatedAt time.Time
}

// IsLoggedIn reports whether p refers to a known user.
func (p *Profile) IsLoggedIn() bool {
	return p != nil && p.ID != ""
}

func (p *Profile) Premium() bool {
	return p.IsLoggedIn() && p.IsPremium
}
