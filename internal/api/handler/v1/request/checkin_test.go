package request

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckIn() CheckInRequest {
	return CheckInRequest{
		FullName: "Dana Levi",
		Age:      30,
		WeightKg: 62,
		HeightCm: 168,
		Gender:   "female",
		Consent:  true,
	}
}

func TestCheckInRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validCheckIn()
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*CheckInRequest)
		field  string
	}{
		{"missing name", func(r *CheckInRequest) { r.FullName = "" }, "full_name"},
		{"age too low", func(r *CheckInRequest) { r.Age = 0 }, "age"},
		{"age too high", func(r *CheckInRequest) { r.Age = 151 }, "age"},
		{"weight too low", func(r *CheckInRequest) { r.WeightKg = 19 }, "weight_kg"},
		{"weight too high", func(r *CheckInRequest) { r.WeightKg = 201 }, "weight_kg"},
		{"height too low", func(r *CheckInRequest) { r.HeightCm = 99 }, "height_cm"},
		{"height too high", func(r *CheckInRequest) { r.HeightCm = 251 }, "height_cm"},
		{"missing gender", func(r *CheckInRequest) { r.Gender = "" }, "gender"},
		{"no consent", func(r *CheckInRequest) { r.Consent = false }, "consent"},
		{"bad birth date", func(r *CheckInRequest) { s := "14/03/1996"; r.BirthDate = &s }, "birth_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckIn()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			fieldErrs, ok := err.(validation.Errors)
			require.True(t, ok)
			assert.Contains(t, fieldErrs, tt.field)
		})
	}
}

func TestCheckInRequestToForm(t *testing.T) {
	notes := "latex allergy noted"
	req := validCheckIn()
	req.Notes = &notes

	form := req.ToForm()
	assert.Equal(t, "Dana Levi", form.FullName)
	assert.Equal(t, 30, form.Age)
	assert.True(t, form.Consent)
	require.NotNil(t, form.Notes)
	assert.Equal(t, notes, *form.Notes)
}
