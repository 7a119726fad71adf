package dto

import "time"

// CreateShortLinkRequest creates a generated link, or a custom one when
// RequestedCode is set. OwnerID is empty for anonymous creations.
type CreateShortLinkRequest struct {
	DestinationURL string `json:"destinationUrl" binding:"required,max=2048"`
	OwnerID        string `json:"ownerId" binding:"omitempty,max=64"`
	RequestedCode  string `json:"requestedCode" binding:"omitempty,max=8"`
}

// CreateShortLinkResponse returns the public short URL.
type CreateShortLinkResponse struct {
	ShortURL string `json:"shortUrl"`
}

// ShortLinkItem is one row of an owner's link listing.
type ShortLinkItem struct {
	Code           string    `json:"code"`
	ShortURL       string    `json:"shortUrl"`
	DestinationURL string    `json:"destinationUrl"`
	Title          string    `json:"title,omitempty"`
	ClickCount     int64     `json:"clickCount"`
	CreatedAt      time.Time `json:"createdAt"`
	LastClickedAt  time.Time `json:"lastClickedAt"`
}

// SweepResponse summarizes one expiration sweep.
type SweepResponse struct {
	DeletedGenerated int `json:"deletedGenerated"`
	DeletedCustom    int `json:"deletedCustom"`
}
