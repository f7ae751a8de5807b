package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triggerStruct struct {
	Name    string `json:"name" validate:"notblank,max=10,excludesall=\x00\n\r\t"`
	Trigger string `json:"trigger" validate:"trigger"`
}

func TestValidator_Trigger(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		trigger string
		wantErr bool
	}{
		{"manual", "manual", false},
		{"quota", "quota", false},
		{"case insensitive", "Exploration", false},
		{"empty defaults later", "", false},
		{"unknown", "meteor", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(triggerStruct{Name: "Lynel", Trigger: tt.trigger})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Names(t *testing.T) {
	v := GetValidator()

	assert.Error(t, v.ValidateStruct(triggerStruct{Name: "   "}))
	assert.Error(t, v.ValidateStruct(triggerStruct{Name: "Ly\nnel"}))
	assert.Error(t, v.ValidateStruct(triggerStruct{Name: "Silver Lynel"}))
	assert.NoError(t, v.ValidateStruct(triggerStruct{Name: "Lynel"}))
}

func TestFormatValidationError(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))

	err := GetValidator().ValidateStruct(triggerStruct{Name: "", Trigger: "meteor"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Unknown raid trigger", fields["trigger"])

	other := FormatValidationError(errors.New("boom"))
	assert.Equal(t, "Invalid request format", other["error"])
}
