package models

import (
	"encoding/json"
	"time"
)

type Card struct {
	ID              string            `json:"id,omitempty"`
	UserID          string            `json:"userId,omitempty"`
	Name            string            `json:"name,omitempty"`
	Title           string            `json:"title,omitempty"`
	Company         string            `json:"company,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Website         string            `json:"website,omitempty"`
	Address         string            `json:"address,omitempty"`
	Bio             string            `json:"bio,omitempty"`
	Layout          string            `json:"layout,omitempty"`
	Color           string            `json:"color,omitempty"`
	LogoURL         string            `json:"logo,omitempty"`
	ProfileImageURL string            `json:"profileImage,omitempty"`
	CoverImageURL   string            `json:"coverImage,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
	CreatedAt       *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
}

// DisplayName falls back to the company when the card has no person name.
func (c Card) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Company
}

type Contact struct {
	ID           string     `json:"id,omitempty"`
	CardID       string     `json:"cardId,omitempty"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Company      string     `json:"company,omitempty"`
	Title        string     `json:"title,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	ScanLocation *Location  `json:"scanLocation,omitempty"`
	Card         *Card      `json:"card,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// LinkedCardID is the card this contact was saved from, whichever field the
// backend filled.
func (c Contact) LinkedCardID() string {
	if c.CardID != "" {
		return c.CardID
	}
	if c.Card != nil {
		return c.Card.ID
	}
	return ""
}

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusApproved ShareStatus = "approved"
	ShareStatusRejected ShareStatus = "rejected"
)

// Share is a visitor's request to drop their card into an owner's contacts.
type Share struct {
	ID            string      `json:"id,omitempty"`
	OwnerCardID   string      `json:"ownerCardId,omitempty"`
	VisitorCardID string      `json:"visitorCardId,omitempty"`
	Status        ShareStatus `json:"status,omitempty"`
	ScanLocation  *Location   `json:"scanLocation,omitempty"`
	VisitorCard   *Card       `json:"visitorCard,omitempty"`
	CreatedAt     *time.Time  `json:"createdAt,omitempty"`
}

type ShareRequest struct {
	OwnerCardID   string    `json:"ownerCardId"`
	VisitorCardID string    `json:"visitorCardId"`
	ScanLocation  *Location `json:"scanLocation,omitempty"`
}

type User struct {
	ID          string `json:"id,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Session is what a successful OTP verification yields.
type Session struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}
