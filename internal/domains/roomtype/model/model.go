package model

import "motel/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID             = "id"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldBasePrice      = "base_price"
	FieldIncludedHours  = "included_hours"
	FieldExtraHourPrice = "extra_hour_price"
	FieldIcon           = "icon"
)

type RoomType struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Description    *string `db:"description"`
	BasePrice      float64 `db:"base_price"`
	IncludedHours  int     `db:"included_hours"`
	ExtraHourPrice float64 `db:"extra_hour_price"`
	Icon           string  `db:"icon"`
	model.Metadata
}
