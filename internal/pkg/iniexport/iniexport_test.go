package iniexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

func TestParticipant(t *testing.T) {
	arrivedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	signature := "agreed"
	qrCode := "tok-123"
	start := "09:00"

	content, err := Participant(domain.Participant{
		ID:        12,
		FullName:  "Dana Levi",
		Phone:     "0521234567",
		Arrived:   true,
		ArrivedAt: &arrivedAt,
		QRCode:    &qrCode,

		DigitalSignature: &signature,
	}, &domain.TrialDay{
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: &start,
	})
	require.NoError(t, err)

	file, err := ini.Load(content)
	require.NoError(t, err)

	p := file.Section("Participant")
	assert.Equal(t, "12", p.Key("ID").String())
	assert.Equal(t, "Dana Levi", p.Key("FullName").String())
	assert.Equal(t, "agreed", p.Key("DigitalSignature").String())
	assert.Equal(t, "tok-123", p.Key("QRCode").String())

	ts := file.Section("Timestamps")
	assert.Equal(t, "2026-03-14T09:30:00Z", ts.Key("ArrivedAt").String())
	assert.Equal(t, "", ts.Key("TrialCompletedAt").String())

	day := file.Section("TrialDay")
	assert.Equal(t, "2026-03-14", day.Key("Date").String())
	assert.Equal(t, "09:00", day.Key("StartTime").String())
}

func TestParticipants(t *testing.T) {
	content, err := Participants([]domain.Participant{
		{ID: 1, FullName: "Dana Levi", Phone: "0521234567"},
		{ID: 2, FullName: "Noa Cohen", Phone: "0527654321"},
	}, &domain.TrialDay{
		Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	file, err := ini.Load(content)
	require.NoError(t, err)

	day := file.Section("TrialDay")
	assert.Equal(t, "2", day.Key("Count").String())
	assert.NotEmpty(t, day.Key("ExportDate").String())

	assert.Equal(t, "Dana Levi", file.Section("Participant_1").Key("FullName").String())
	assert.Equal(t, "Noa Cohen", file.Section("Participant_2").Key("FullName").String())
}
