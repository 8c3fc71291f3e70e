package domain

import "time"

// Court represents a tennis court listed on the dashboard.
type Court struct {
	ID          string
	Name        string
	ImageURL    string
	Location    string
	Latitude    float64
	Longitude   float64
	SubmittedBy string
	CreatedAt   time.Time
}

// Favorite marks a court saved by a user.
type Favorite struct {
	UID       string
	CourtID   string
	CreatedAt time.Time
}
