package entity

import "time"

// Review is a rating plus text attached to a store by a user. At most one
// review exists per (store, author) pair; the database enforces this with a
// unique index.
type Review struct {
	ID        string
	Text      string
	Rating    int
	StoreID   string
	AuthorID  string
	CreatedAt time.Time
}
