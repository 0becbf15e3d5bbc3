package repository

import "time"

// Contact represents a contact row. Empty strings mean the field is unset.
type Contact struct {
	ID        string
	First     string
	Last      string
	Avatar    string
	Twitter   string
	Notes     string
	Favorite  bool
	CreatedAt time.Time
}
