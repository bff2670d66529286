package dto

import "time"

// RegisterRequest payload for new members.
type RegisterRequest struct {
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
}

// LoginRequest payload for OTP login.
type LoginRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

// UserResponse is the public profile shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Mobile    string    `json:"mobile"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse bundles the issued credential and the profile.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
