package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motel/internal/domains/room/model"
	"motel/shared/failure"
)

func TestRoom_TotalPrice(t *testing.T) {
	room := model.Room{
		BasePrice:        40000,
		IncludedHours:    3,
		ExtraHourPrice:   5000,
		ExtraHourBilling: true,
	}

	tests := []struct {
		name     string
		room     model.Room
		hours    float64
		expected float64
		wantErr  bool
		wantKind failure.Kind
	}{
		{
			name:     "within included hours",
			room:     room,
			hours:    2,
			expected: 40000,
		},
		{
			name:     "exactly at included hours",
			room:     room,
			hours:    3,
			expected: 40000,
		},
		{
			name:     "two extra hours",
			room:     room,
			hours:    5,
			expected: 50000,
		},
		{
			name:     "fractional overage billed proportionally",
			room:     room,
			hours:    3.5,
			expected: 42500,
		},
		{
			name: "overage with billing disabled",
			room: model.Room{
				BasePrice:        40000,
				IncludedHours:    3,
				ExtraHourPrice:   5000,
				ExtraHourBilling: false,
			},
			hours:    8,
			expected: 40000,
		},
		{
			name:     "zero duration rejected",
			room:     room,
			hours:    0,
			wantErr:  true,
			wantKind: failure.KindInvalidDuration,
		},
		{
			name:     "negative duration rejected",
			room:     room,
			hours:    -1.5,
			wantErr:  true,
			wantKind: failure.KindInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := tt.room.TotalPrice(tt.hours)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantKind))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestRoom_TotalPrice_IndependentOfSurchargeWithinIncluded(t *testing.T) {
	// Below the threshold the surcharge fields must never matter.
	for _, billing := range []bool{true, false} {
		room := model.Room{
			BasePrice:        30000,
			IncludedHours:    6,
			ExtraHourPrice:   99999,
			ExtraHourBilling: billing,
		}

		total, err := room.TotalPrice(5.99)
		assert.NoError(t, err)
		assert.Equal(t, 30000.0, total)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		model.StatusAvailable,
		model.StatusOccupied,
		model.StatusCleaning,
		model.StatusMaintenance,
	} {
		assert.True(t, model.ValidStatus(status), status)
	}

	for _, status := range []string{"", "reserved", "AVAILABLE", "closed"} {
		assert.False(t, model.ValidStatus(status), status)
	}
}
