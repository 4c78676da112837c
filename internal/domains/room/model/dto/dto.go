package dto

import (
	"time"

	"motel/internal/domains/room/model"
	roomTypeModel "motel/internal/domains/roomtype/model"
	"motel/shared"
	gDto "motel/shared/dto"
	gModel "motel/shared/model"
	"motel/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Number      string  `json:"number"       validate:"required,max=20"`
	RoomTypeID  string  `json:"room_type_id" validate:"required,uuid"`
	Floor       int     `json:"floor"        validate:"required,min=1,max=10"`
	Description *string `json:"description"  validate:"omitempty,max=500"`
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

// ToModel builds a room from the request, snapshotting the room type's
// pricing fields. New rooms always start available.
func (c *CreateRoomRequest) ToModel(roomType roomTypeModel.RoomType, user string) model.Room {
	return model.Room{
		ID:               uuid.NewString(),
		Number:           c.Number,
		RoomTypeID:       roomType.ID,
		Status:           model.StatusAvailable,
		BasePrice:        roomType.BasePrice,
		IncludedHours:    roomType.IncludedHours,
		ExtraHourPrice:   roomType.ExtraHourPrice,
		ExtraHourBilling: roomType.ExtraHourPrice > 0,
		Floor:            c.Floor,
		Description:      c.Description,
		Notes:            c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Number           string  `db:"number"             json:"number"             validate:"omitempty,max=20"`
	Floor            *int    `db:"floor"              json:"floor"              validate:"omitempty,min=1,max=10"`
	Description      *string `db:"description"        json:"description"        validate:"omitempty,max=500"`
	Notes            *string `db:"notes"              json:"notes"              validate:"omitempty,max=500"`
	ExtraHourBilling *bool   `db:"extra_hour_billing" json:"extra_hour_billing" validate:"omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied cleaning maintenance"`
}

// QuoteRequest carries the requested stay duration. Zero and negative values
// pass through so the pricing calculator can reject them as invalid durations.
type QuoteRequest struct {
	Hours float64 `json:"hours"`
}

type QuoteResponse struct {
	RoomID        string  `json:"room_id"`
	RoomNumber    string  `json:"room_number"`
	Hours         float64 `json:"hours"`
	IncludedHours int     `json:"included_hours"`
	BasePrice     float64 `json:"base_price"`
	TotalPrice    float64 `json:"total_price"`
}

type RoomResponse struct {
	ID               string  `json:"id"`
	Number           string  `json:"number"`
	RoomTypeID       string  `json:"room_type_id"`
	Status           string  `json:"status"`
	BasePrice        float64 `json:"base_price"`
	IncludedHours    int     `json:"included_hours"`
	ExtraHourPrice   float64 `json:"extra_hour_price"`
	ExtraHourBilling bool    `json:"extra_hour_billing"`
	Floor            int     `json:"floor"`
	Description      *string `json:"description,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.RoomTypeID = model.RoomTypeID
	r.Status = model.Status
	r.BasePrice = model.BasePrice
	r.IncludedHours = model.IncludedHours
	r.ExtraHourPrice = model.ExtraHourPrice
	r.ExtraHourBilling = model.ExtraHourBilling
	r.Floor = model.Floor
	r.Description = model.Description
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type StatusChangeResponse struct {
	RoomID         string    `json:"room_id"`
	RoomNumber     string    `json:"room_number"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

func (s *StatusChangeResponse) FromModel(change model.StatusChange) {
	s.RoomID = change.RoomID
	s.RoomNumber = change.RoomNumber
	s.PreviousStatus = change.PreviousStatus
	s.NewStatus = change.NewStatus
	s.ChangedBy = change.ChangedBy
	s.ChangedAt = change.ChangedAt
}

type StatusHistoryResponse struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"room_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

func (s *StatusHistoryResponse) FromModel(history model.StatusHistory) {
	s.ID = history.ID
	s.RoomID = history.RoomID
	s.PreviousStatus = history.PreviousStatus
	s.NewStatus = history.NewStatus
	s.ChangedBy = history.ChangedBy
	s.ChangedAt = history.ChangedAt
}

type GetStatusHistoryResponse struct {
	History   []StatusHistoryResponse `json:"history"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (g *GetStatusHistoryResponse) FromModels(models []model.StatusHistory, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.History = make([]StatusHistoryResponse, len(models))
	for i, mod := range models {
		g.History[i].FromModel(mod)
	}
}

type RoomStatsResponse struct {
	TotalRooms int            `json:"total_rooms"`
	ByStatus   map[string]int `json:"by_status"`
	ByType     map[string]int `json:"by_type"`
}

func (r *RoomStatsResponse) FromCounts(byStatus []model.StatusCount, byType []model.TypeCount) {
	r.ByStatus = map[string]int{
		model.StatusAvailable:   0,
		model.StatusOccupied:    0,
		model.StatusCleaning:    0,
		model.StatusMaintenance: 0,
	}

	for _, row := range byStatus {
		r.ByStatus[row.Status] = row.Count
		r.TotalRooms += row.Count
	}

	r.ByType = make(map[string]int, len(byType))
	for _, row := range byType {
		r.ByType[row.Name] = row.Count
	}
}
