package model

import "time"

// Booking is a client's booking submission against a provider's public page.
// Only field presence is validated here; anything richer belongs to the
// provider's own follow-up.
type Booking struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"` // the provider who owns the booking
	Name      string    `json:"name" validate:"required,min=1,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Message   string    `json:"message,omitempty" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
