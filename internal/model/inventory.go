package model

import (
	"strings"
	"time"
)

// Item is a row of the `inventory` table.
type Item struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemRequest is the body of both create and update; updates replace every field.
type ItemRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Quantity *int   `json:"quantity" form:"quantity" validate:"required,gte=0,lte=2147483647"` // INT column
}

// Normalize trims the item name so a blank name fails validation.
func (r *ItemRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
