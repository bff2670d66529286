package dto

import "time"

// PostRequest payload for creating or updating a post.
type PostRequest struct {
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	ImageBase64 *string `json:"imageBase64"`
}

// PostResponse is the wire shape of a post.
type PostResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	ImageBase64 *string   `json:"imageBase64"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
