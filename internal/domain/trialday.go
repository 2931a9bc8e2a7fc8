package domain

import "time"

type TrialDay struct {
	ID             uint      `json:"id"`
	Date           time.Time `json:"date"`
	StartTime      *string   `json:"start_time,omitempty"`
	EndTime        *string   `json:"end_time,omitempty"`
	AvailableSlots int       `json:"available_slots"`
	Notes          *string   `json:"notes,omitempty"`
	Stations       []Station `json:"stations,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrialDayStats summarizes a day's participants for the dashboard widgets.
type TrialDayStats struct {
	TrialDayID     uint `json:"trial_day_id"`
	Registered     int  `json:"registered"`
	Arrived        int  `json:"arrived"`
	FormCompleted  int  `json:"form_completed"`
	TrialCompleted int  `json:"trial_completed"`
	AvailableSlots int  `json:"available_slots"`
}
