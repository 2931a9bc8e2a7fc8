package domain

import "time"

// Participant lifecycle: Registered -> Arrived -> FormCompleted -> TrialCompleted.
// The flags are monotonic; no operation clears one once set.
type Participant struct {
	ID         uint   `json:"id"`
	TrialDayID uint   `json:"trial_day_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`

	Age                *int     `json:"age,omitempty"`
	BirthDate          *string  `json:"birth_date,omitempty"`
	WeightKg           *float64 `json:"weight_kg,omitempty"`
	HeightCm           *float64 `json:"height_cm,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	SkinColor          *string  `json:"skin_color,omitempty"`
	Allergies          *string  `json:"allergies,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
	StationID          *uint    `json:"station_id,omitempty"`
	DesiredArrivalTime *string  `json:"desired_arrival_time,omitempty"`

	Arrived          bool       `json:"arrived"`
	ArrivedAt        *time.Time `json:"arrived_at,omitempty"`
	FormCompleted    bool       `json:"form_completed"`
	FormCompletedAt  *time.Time `json:"form_completed_at,omitempty"`
	TrialCompleted   bool       `json:"trial_completed"`
	TrialCompletedAt *time.Time `json:"trial_completed_at,omitempty"`

	// QRCode is the single-use check-in token, non-nil iff Arrived.
	// Once minted it is never replaced.
	QRCode           *string `json:"qr_code,omitempty"`
	DigitalSignature *string `json:"digital_signature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckInForm carries the fields a participant submits through the public
// check-in link. Consent must be true before any of it is written.
type CheckInForm struct {
	FullName  string
	Age       int
	BirthDate *string
	WeightKg  float64
	HeightCm  float64
	Gender    string
	SkinColor *string
	Allergies *string
	Notes     *string
	Consent   bool
}
