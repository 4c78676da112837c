package dto

import (
	"time"

	"motel/internal/domains/reservation/model"
	"motel/shared"
	gDto "motel/shared/dto"
	gModel "motel/shared/model"
	"motel/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID        string  `json:"room_id"        validate:"required,uuid"`
	GuestName     string  `json:"guest_name"     validate:"required,max=100"`
	GuestPhone    *string `json:"guest_phone"    validate:"omitempty,max=20"`
	ExpectedHours float64 `json:"expected_hours" validate:"required,gt=0"`
	Notes         *string `json:"notes"          validate:"omitempty,max=500"`
}

// ToModel builds an active reservation checked in now, priced at totalPrice
// from the room's snapshot.
func (c *CreateReservationRequest) ToModel(totalPrice float64, user string) model.Reservation {
	return model.Reservation{
		ID:            uuid.NewString(),
		RoomID:        c.RoomID,
		GuestName:     c.GuestName,
		GuestPhone:    c.GuestPhone,
		CheckIn:       timezone.Now(),
		ExpectedHours: c.ExpectedHours,
		TotalPrice:    totalPrice,
		Status:        model.StatusActive,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateReservationRequest struct {
	GuestName  string  `db:"guest_name"  json:"guest_name"  validate:"omitempty,max=100"`
	GuestPhone *string `db:"guest_phone" json:"guest_phone" validate:"omitempty,max=20"`
	Notes      *string `db:"notes"       json:"notes"       validate:"omitempty,max=500"`
}

type ReservationResponse struct {
	ID            string     `json:"id"`
	RoomID        string     `json:"room_id"`
	GuestName     string     `json:"guest_name"`
	GuestPhone    *string    `json:"guest_phone,omitempty"`
	CheckIn       time.Time  `json:"check_in"`
	ExpectedHours float64    `json:"expected_hours"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	TotalPrice    float64    `json:"total_price"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.GuestPhone = model.GuestPhone
	r.CheckIn = model.CheckIn
	r.ExpectedHours = model.ExpectedHours
	r.CheckOut = model.CheckOut
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (g *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		g.Reservations[i].FromModel(mod)
	}
}
