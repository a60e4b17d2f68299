package model

import "time"

// Case is a legal matter owned by the user who created it. Status defaults
// to "open"; a case counts as active while status != "closed".
type Case struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"ownerId"`
	Title           string    `json:"title"`
	ClientName      string    `json:"clientName"`
	Status          string    `json:"status"`
	Court           string    `json:"court"`
	NextHearingDate string    `json:"nextHearingDate"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
