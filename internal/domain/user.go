package domain

import "time"

// User is the domain model for registered members. Mobile is the unique
// external identifier and is never changed after registration.
type User struct {
	ID        string
	Mobile    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
