package dto

import (
	"testing"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFormRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   UpdateFormRequest
		wantField string
	}{
		{
			name:    "valid personal form",
			request: UpdateFormRequest{RequesterName: "Ana", ControlNumber: "12345", Kind: "PERSONAL"},
		},
		{
			name:    "empty control number allowed while editing",
			request: UpdateFormRequest{RequesterName: "Ana"},
		},
		{
			name:      "control number with letters",
			request:   UpdateFormRequest{ControlNumber: "12a45"},
			wantField: "control_number",
		},
		{
			name:    "equipo spelling accepted",
			request: UpdateFormRequest{Kind: "equipo"},
		},
		{
			name:      "unknown kind",
			request:   UpdateFormRequest{Kind: "CLASS"},
			wantField: "kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestUpdateFormRequest_ToModel(t *testing.T) {
	req := UpdateFormRequest{
		RequesterName:  "Equipo Rojo",
		ControlNumber:  " 777 ",
		Kind:           "GROUP",
		MemberCount:    3,
		Subject:        "Robótica",
		Group:          "5B",
		InstructorName: "Prof. Díaz",
	}

	form := req.ToModel()

	assert.Equal(t, model.KindGroup, form.Kind)
	assert.Equal(t, "777", form.ControlNumber)
	assert.Equal(t, 3, form.MemberCount)
	assert.Equal(t, "Prof. Díaz", form.InstructorName)
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field only",
			err:  NewValidationError("requester_name", "validation.requester_name_required"),
			want: "requester_name: validation.requester_name_required",
		},
		{
			name: "with item",
			err:  &ValidationError{Field: "items", Key: "validation.item_quantity_invalid", Item: "Multímetro"},
			want: "items: validation.item_quantity_invalid (Multímetro)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
