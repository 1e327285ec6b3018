package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a tour booking as stored and as returned by the list endpoint.
// ID is empty until the store assigns one on insert.
type Booking struct {
	ID            string        `json:"id,omitempty"`
	CustomerName  string        `json:"customerName" validate:"required"`
	CustomerEmail string        `json:"customerEmail" validate:"required"`
	Package       string        `json:"package" validate:"required"`
	TravelerCount int           `json:"travelerCount" validate:"gte=1"`
	Status        BookingStatus `json:"status" validate:"oneof=pending confirmed cancelled"`
	CreatedAt     time.Time     `json:"createdAt" validate:"required"`
}

// BookingEvent is published after a booking is persisted.
type BookingEvent struct {
	Type          string    `json:"type"`
	ID            string    `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Package       string    `json:"package"`
	TravelerCount int       `json:"travelerCount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewBookingEvent(eventType string, b Booking) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		ID:            b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Package:       b.Package,
		TravelerCount: b.TravelerCount,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}
