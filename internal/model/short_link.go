package model

import "time"

// ShortLink is a record in the generated-code collection. Codes are six
// characters, unique within the collection only; a custom link may carry the
// same value and wins on lookup.
type ShortLink struct {
	BaseModel
	Code           string    `gorm:"uniqueIndex;size:8;not null" json:"code"`
	DestinationURL string    `gorm:"size:2048;not null" json:"destinationUrl"`
	OwnerID        string    `gorm:"index;size:64" json:"ownerId,omitempty"`
	Title          string    `gorm:"size:512" json:"title,omitempty"`
	ClickCount     int64     `gorm:"default:0" json:"clickCount"`
	LastClickedAt  time.Time `gorm:"index" json:"lastClickedAt"`
}

// CustomLink is a record in the custom-code collection: one per owner,
// 4-5 character alphanumeric code with at least one letter and one digit.
type CustomLink struct {
	BaseModel
	Code           string    `gorm:"uniqueIndex;size:5;not null" json:"code"`
	DestinationURL string    `gorm:"size:2048;not null" json:"destinationUrl"`
	OwnerID        string    `gorm:"uniqueIndex;size:64;not null" json:"ownerId"`
	Title          string    `gorm:"size:512" json:"title,omitempty"`
	ClickCount     int64     `gorm:"default:0" json:"clickCount"`
	LastClickedAt  time.Time `gorm:"index" json:"lastClickedAt"`
}
