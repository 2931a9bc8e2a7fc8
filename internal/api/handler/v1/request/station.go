package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type StationRequest struct {
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

func (req *StationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}
