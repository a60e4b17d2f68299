package model

import "time"

// Client is a contact record owned by the user who created it. Only the
// owner can see or modify it.
type Client struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
