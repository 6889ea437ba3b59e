package model

// Profile carries the provider's public-facing details plus the booking-link
// preference the dashboard shows.
type Profile struct {
	ID           string `json:"id,omitempty"`
	UserID       string `json:"user_id"`
	Name         string `json:"name,omitempty" validate:"omitempty,max=100"`
	BusinessName string `json:"business_name,omitempty" validate:"omitempty,max=100"`
	Bio          string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Timezone     string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	BookingLink  string `json:"booking_link,omitempty"`
}

// BookingLinkMapping maps a public slug to its owner. The slug is the
// document identity, so uniqueness is enforced by the store.
type BookingLinkMapping struct {
	Slug   string `json:"slug"`
	UserID string `json:"user_id"`
}
