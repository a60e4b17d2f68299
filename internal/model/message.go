package model

import "time"

// Message is a logged outbound communication owned by the user who created
// it. Channel defaults to "email".
type Message struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Subject        string    `json:"subject"`
	ToName         string    `json:"toName"`
	Channel        string    `json:"channel"`
	LinkedCaseID   string    `json:"linkedCaseId"`
	LinkedClientID string    `json:"linkedClientId"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
