// Package models defines server-side data models persisted in the database.
package models

import "time"

// Document is a digital document record. The file itself lives at FileURL
// (an external URL or an object storage locator); OwnerID is fixed at creation.
type Document struct {
	ID           int64
	Title        string
	FileURL      string
	DocumentType *string
	OwnerID      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
