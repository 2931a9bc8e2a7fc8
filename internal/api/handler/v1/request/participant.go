package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ParticipantRequest struct {
	TrialDayID         uint     `json:"trial_day_id"`
	FullName           string   `json:"full_name"`
	Phone              string   `json:"phone"`
	Age                *int     `json:"age"`
	BirthDate          *string  `json:"birth_date"`
	WeightKg           *float64 `json:"weight_kg"`
	HeightCm           *float64 `json:"height_cm"`
	Gender             *string  `json:"gender"`
	SkinColor          *string  `json:"skin_color"`
	Allergies          *string  `json:"allergies"`
	Notes              *string  `json:"notes"`
	StationID          *uint    `json:"station_id"`
	DesiredArrivalTime *string  `json:"desired_arrival_time"`
}

func (req *ParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TrialDayID, validation.Required),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Phone, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.BirthDate, validation.Date("2006-01-02")),
	)
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

func (req *BulkDeleteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IDs, validation.Required, validation.Length(1, 0)),
	)
}

type WhatsAppLinkRequest struct {
	MessageType   string `form:"message_type"`
	CustomMessage string `form:"custom_message"`
}

func (req *WhatsAppLinkRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MessageType, validation.In("check_in_confirmation", "trial_reminder", "custom")),
	)
}
