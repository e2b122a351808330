package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	UserID string   `json:"user_id" validate:"required"`
	Focus  string   `json:"focus" validate:"omitempty,oneof=food attractions both"`
	Places []string `json:"places" validate:"omitempty,min=1"`
	Status string   `json:"status" validate:"plan_status"`
	Type   string   `yaml:"type" validate:"reel_type"`
}

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		in   sample
		msg  string
	}{
		{"valid", sample{UserID: "u1", Focus: "food", Status: "past", Type: "Food"}, ""},
		{"missing user", sample{}, "user_id is required"},
		{"bad focus", sample{UserID: "u1", Focus: "sleep"}, "focus must be one of: food, attractions, both"},
		{"bad status", sample{UserID: "u1", Status: "done"}, "status must be one of: current, upcoming, past"},
		{"bad type uses yaml name", sample{UserID: "u1", Type: "Bar"}, "type must be Food or Place"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())

			var fe *FieldError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestStruct_NestedFieldPath(t *testing.T) {
	type stop struct {
		Name string `json:"name" validate:"required"`
	}
	type plan struct {
		Stops []stop `json:"stops" validate:"dive"`
	}

	err := New().Struct(plan{Stops: []stop{{Name: "a"}, {}}})
	require.Error(t, err)
	assert.Equal(t, "stops[1].name is required", err.Error())
}
