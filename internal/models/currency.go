package models

import "github.com/google/uuid"

// Currency is a reference record users pick at registration.
type Currency struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Symbol string    `json:"symbol"`
	Code   string    `json:"code"`
}
