package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventPostCreated    EventType = "post_created"
	EventPostUpdated    EventType = "post_updated"
	EventPostDeleted    EventType = "post_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	PostID      string `json:"post_id"`
	Description string `json:"description"`
	HasImage    bool   `json:"has_image"`
}

// PostUpdatedPayload payload.
type PostUpdatedPayload struct {
	PostID string `json:"post_id"`
}

// PostDeletedPayload payload.
type PostDeletedPayload struct {
	PostID string `json:"post_id"`
}
