package model

import "time"

// MaxContentLength is the upper bound on stored content, in characters.
const MaxContentLength = 1_000_000

// Document is one published piece of content. ShortID doubles as the public
// read capability; OwnerHash is the SHA-256 digest of the creator credential
// and is set exactly once, at creation.
type Document struct {
	ID        string
	ShortID   string
	Content   string
	OwnerHash []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateRequest struct {
	Content     string `json:"content"`
	CreatorHash string `json:"creator_hash"`
}

type CreateResponse struct {
	ShortID string `json:"short_id"`
}

type FetchRequest struct {
	ShortID     string `json:"short_id"`
	CreatorHash string `json:"creator_hash"`
}

type UpdateRequest struct {
	ShortID     string `json:"short_id"`
	CreatorHash string `json:"creator_hash"`
	Content     string `json:"content"`
}

type ContentResponse struct {
	Content string `json:"content"`
}

type UpdateResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
