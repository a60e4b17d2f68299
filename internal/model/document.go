package model

import "time"

// Document is an owned metadata record that may reference an uploaded file.
// The blob reference (StorageProvider + StorageKey) belongs to the record:
// deleting the record must release the blob as well. A document created
// without a file has an empty StorageKey.
type Document struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"ownerId"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	LinkedCaseID    string    `json:"linkedCaseId"`
	LinkedClientID  string    `json:"linkedClientId"`
	Notes           string    `json:"notes"`
	StorageProvider string    `json:"storageProvider"`
	StorageKey      string    `json:"storageKey"`
	FileName        string    `json:"fileName"`
	MimeType        string    `json:"mimeType"`
	FileSize        int64     `json:"fileSize"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasFile reports whether a blob is attached to the document.
func (d *Document) HasFile() bool { return d.StorageKey != "" }
