package entity

import "time"

// DefaultRatingsAverage is the neutral rating a store carries while it has no
// reviews. Unrated stores rank as average-good instead of sinking to zero.
const DefaultRatingsAverage = 4.5

// Location is a WGS84 point plus the store's street address.
type Location struct {
	Lng     float64
	Lat     float64
	Address string
}

// Store is a user-owned directory listing. RatingsAverage and
// RatingsQuantity are derived from the store's current review set and are
// only ever written by the rating recomputation in the review service.
type Store struct {
	ID              string
	Name            string
	Slug            string
	Description     string
	Tags            []string
	RatingsAverage  float64
	RatingsQuantity int
	Photo           string
	Location        Location
	AuthorID        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
