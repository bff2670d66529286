package domain

import "time"

// Post is the aggregate for shared feed content. UserID is assigned at
// creation and never reassigned; it is the sole basis for authorization.
type Post struct {
	ID          string
	UserID      string
	Description string
	ImageURL    *string
	ImageBase64 *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID reports the owning user, satisfying the ownership guard's
// resource contract.
func (p *Post) OwnerID() string {
	return p.UserID
}
