package model

import (
	"time"

	"motel/shared/failure"
	"motel/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID               = "id"
	FieldNumber           = "number"
	FieldRoomTypeID       = "room_type_id"
	FieldStatus           = "status"
	FieldBasePrice        = "base_price"
	FieldIncludedHours    = "included_hours"
	FieldExtraHourPrice   = "extra_hour_price"
	FieldExtraHourBilling = "extra_hour_billing"
	FieldFloor            = "floor"
	FieldDescription      = "description"
	FieldNotes            = "notes"
)

const (
	HistoryTableName  = "room_status_history"
	HistoryEntityName = "room_status_history"

	HistoryFieldID             = "id"
	HistoryFieldRoomID         = "room_id"
	HistoryFieldPreviousStatus = "previous_status"
	HistoryFieldNewStatus      = "new_status"
	HistoryFieldChangedBy      = "changed_by"
	HistoryFieldChangedAt      = "changed_at"
)

// Room statuses. The status machine is fully connected: any status may move
// to any other status, including itself.
const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusCleaning    = "cleaning"
	StatusMaintenance = "maintenance"
)

var validStatuses = map[string]struct{}{
	StatusAvailable:   {},
	StatusOccupied:    {},
	StatusCleaning:    {},
	StatusMaintenance: {},
}

// ValidStatus reports whether the value is a member of the status enum.
func ValidStatus(status string) bool {
	_, ok := validStatuses[status]

	return ok
}

// Room carries the pricing snapshot copied from its room type at creation
// time. Later room-type price edits do not change the room unless pricing is
// explicitly re-synced.
type Room struct {
	ID               string  `db:"id"`
	Number           string  `db:"number"`
	RoomTypeID       string  `db:"room_type_id"`
	Status           string  `db:"status"`
	BasePrice        float64 `db:"base_price"`
	IncludedHours    int     `db:"included_hours"`
	ExtraHourPrice   float64 `db:"extra_hour_price"`
	ExtraHourBilling bool    `db:"extra_hour_billing"`
	Floor            int     `db:"floor"`
	Description      *string `db:"description"`
	Notes            *string `db:"notes"`
	model.Metadata
}

// TotalPrice computes the charge for a stay of the given duration in hours
// from the room's pricing snapshot. Durations within the included hours cost
// the base price. Overage is billed proportionally per extra hour, without
// rounding, and only while extra-hour billing is enabled.
func (r *Room) TotalPrice(hours float64) (float64, error) {
	if hours <= 0 {
		return 0, failure.InvalidDuration("stay duration must be greater than zero") //nolint:wrapcheck
	}

	if hours <= float64(r.IncludedHours) {
		return r.BasePrice, nil
	}

	if !r.ExtraHourBilling {
		return r.BasePrice, nil
	}

	extraHours := hours - float64(r.IncludedHours)

	return r.BasePrice + extraHours*r.ExtraHourPrice, nil
}

// StatusHistory is one audit record per status transition.
type StatusHistory struct {
	ID             string    `db:"id"`
	RoomID         string    `db:"room_id"`
	PreviousStatus string    `db:"previous_status"`
	NewStatus      string    `db:"new_status"`
	ChangedBy      string    `db:"changed_by"`
	ChangedAt      time.Time `db:"changed_at"`
}

// StatusChange is the applied transition returned to the caller.
type StatusChange struct {
	RoomID         string
	RoomNumber     string
	PreviousStatus string
	NewStatus      string
	ChangedBy      string
	ChangedAt      time.Time
}

// StatusCount is one row of the per-status dashboard aggregate.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// TypeCount is one row of the per-room-type dashboard aggregate.
type TypeCount struct {
	Name  string `db:"name"`
	Count int    `db:"count"`
}
