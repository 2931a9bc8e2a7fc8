package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type TrialDayRequest struct {
	Date           string  `json:"date"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	AvailableSlots int     `json:"available_slots"`
	Notes          *string `json:"notes"`
	StationIDs     []uint  `json:"station_ids"`
}

func (req *TrialDayRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&req.StartTime, validation.Date("15:04")),
		validation.Field(&req.EndTime, validation.Date("15:04")),
		validation.Field(&req.AvailableSlots, validation.Min(0)),
	)
}

func (req *TrialDayRequest) ParsedDate() (time.Time, error) {
	return time.Parse("2006-01-02", req.Date)
}
