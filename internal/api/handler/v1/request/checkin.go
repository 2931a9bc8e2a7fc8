package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

// CheckInRequest mirrors the public intake form. The bounds match what the
// trial staff consider plausible human measurements; anything outside is a
// typo, not a participant.
type CheckInRequest struct {
	FullName  string  `json:"full_name"`
	Age       int     `json:"age"`
	BirthDate *string `json:"birth_date"`
	WeightKg  float64 `json:"weight_kg"`
	HeightCm  float64 `json:"height_cm"`
	Gender    string  `json:"gender"`
	SkinColor *string `json:"skin_color"`
	Allergies *string `json:"allergies"`
	Notes     *string `json:"notes"`
	Consent   bool    `json:"consent"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Age, validation.Required, validation.Min(1), validation.Max(150)),
		validation.Field(&req.BirthDate, validation.Date("2006-01-02")),
		validation.Field(&req.WeightKg, validation.Required, validation.Min(20.0), validation.Max(200.0)),
		validation.Field(&req.HeightCm, validation.Required, validation.Min(100.0), validation.Max(250.0)),
		validation.Field(&req.Gender, validation.Required),
		validation.Field(&req.Consent, validation.Required, validation.In(true)),
	)
}

func (req *CheckInRequest) ToForm() domain.CheckInForm {
	return domain.CheckInForm{
		FullName:  req.FullName,
		Age:       req.Age,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
		HeightCm:  req.HeightCm,
		Gender:    req.Gender,
		SkinColor: req.SkinColor,
		Allergies: req.Allergies,
		Notes:     req.Notes,
		Consent:   req.Consent,
	}
}
