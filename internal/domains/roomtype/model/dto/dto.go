package dto

import (
	"motel/internal/domains/roomtype/model"
	"motel/shared"
	gDto "motel/shared/dto"
	gModel "motel/shared/model"
	"motel/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomTypeRequest struct {
	Name           string  `json:"name"             validate:"required,max=100"`
	Description    *string `json:"description"      validate:"omitempty,max=500"`
	BasePrice      float64 `json:"base_price"       validate:"gte=0"`
	IncludedHours  int     `json:"included_hours"   validate:"required,min=1,max=24"`
	ExtraHourPrice float64 `json:"extra_hour_price" validate:"gte=0"`
	Icon           string  `json:"icon"             validate:"omitempty,max=50"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	icon := c.Icon
	if icon == "" {
		icon = "🏠"
	}

	return model.RoomType{
		ID:             uuid.NewString(),
		Name:           c.Name,
		Description:    c.Description,
		BasePrice:      c.BasePrice,
		IncludedHours:  c.IncludedHours,
		ExtraHourPrice: c.ExtraHourPrice,
		Icon:           icon,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name           string   `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Description    *string  `db:"description"      json:"description"      validate:"omitempty,max=500"`
	BasePrice      *float64 `db:"base_price"       json:"base_price"       validate:"omitempty,gte=0"`
	IncludedHours  *int     `db:"included_hours"   json:"included_hours"   validate:"omitempty,min=1,max=24"`
	ExtraHourPrice *float64 `db:"extra_hour_price" json:"extra_hour_price" validate:"omitempty,gte=0"`
	Icon           string   `db:"icon"             json:"icon"             validate:"omitempty,max=50"`
}

type RoomTypeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	BasePrice      float64 `json:"base_price"`
	IncludedHours  int     `json:"included_hours"`
	ExtraHourPrice float64 `json:"extra_hour_price"`
	Icon           string  `json:"icon"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.IncludedHours = model.IncludedHours
	r.ExtraHourPrice = model.ExtraHourPrice
	r.Icon = model.Icon
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
