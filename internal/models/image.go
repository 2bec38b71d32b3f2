package models

import "time"

// Image is one uploaded source. The row and its derivatives are created as
// a single unit; neither is mutated afterwards. Derivatives and expiring
// links die by cascade when the image is deleted.
type Image struct {
	ID        string
	UserID    string
	Filename  string
	ObjectKey string
	SizeBytes int64
	CreatedAt time.Time
}

// Derivative is one resized rendition of an Image. Exactly one row exists
// per configured tier height for the upload that created it. Position is
// the zero-based index in the tier's dimension list; all rows of one
// upload share a created_at, so it alone carries generation order.
type Derivative struct {
	ID        string
	ImageID   string
	Name      string
	Position  int
	Height    int
	Width     int
	ObjectKey string
	SizeBytes int64
	CreatedAt time.Time
}
