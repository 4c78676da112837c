package model

import (
	"time"

	"motel/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldGuestName     = "guest_name"
	FieldGuestPhone    = "guest_phone"
	FieldCheckIn       = "check_in"
	FieldExpectedHours = "expected_hours"
	FieldCheckOut      = "check_out"
	FieldTotalPrice    = "total_price"
	FieldStatus        = "status"
	FieldNotes         = "notes"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Reservation is one stay. TotalPrice is computed from the room's pricing
// snapshot at creation time and never recomputed afterwards.
type Reservation struct {
	ID            string     `db:"id"`
	RoomID        string     `db:"room_id"`
	GuestName     string     `db:"guest_name"`
	GuestPhone    *string    `db:"guest_phone"`
	CheckIn       time.Time  `db:"check_in"`
	ExpectedHours float64    `db:"expected_hours"`
	CheckOut      *time.Time `db:"check_out"`
	TotalPrice    float64    `db:"total_price"`
	Status        string     `db:"status"`
	Notes         *string    `db:"notes"`
	model.Metadata
}

// IsActive reports whether the reservation still occupies its room.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}
