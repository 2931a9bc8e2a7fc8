// Package iniexport renders participant records as INI files for the lab
// equipment that still imports them.
package iniexport

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

// Participant renders one record with [Participant], [Timestamps] and
// [TrialDay] sections.
func Participant(p domain.Participant, day *domain.TrialDay) ([]byte, error) {
	file := ini.Empty()

	section, err := file.NewSection("Participant")
	if err != nil {
		return nil, err
	}
	fillParticipant(section, p)
	section.Key("DigitalSignature").SetValue(strPtr(p.DigitalSignature))
	section.Key("QRCode").SetValue(strPtr(p.QRCode))

	timestamps, err := file.NewSection("Timestamps")
	if err != nil {
		return nil, err
	}
	timestamps.Key("ArrivedAt").SetValue(timePtr(p.ArrivedAt))
	timestamps.Key("FormCompletedAt").SetValue(timePtr(p.FormCompletedAt))
	timestamps.Key("TrialCompletedAt").SetValue(timePtr(p.TrialCompletedAt))

	if err = appendTrialDay(file, day, 0); err != nil {
		return nil, err
	}

	return render(file)
}

// Participants renders a per-day bulk export: a [TrialDay] header followed
// by one [Participant_<id>] section per record.
func Participants(participants []domain.Participant, day *domain.TrialDay) ([]byte, error) {
	file := ini.Empty()

	if err := appendTrialDay(file, day, len(participants)); err != nil {
		return nil, err
	}

	for _, p := range participants {
		section, err := file.NewSection(fmt.Sprintf("Participant_%d", p.ID))
		if err != nil {
			return nil, err
		}
		fillParticipant(section, p)
		section.Key("QRCode").SetValue(strPtr(p.QRCode))
		section.Key("ArrivedAt").SetValue(timePtr(p.ArrivedAt))
		section.Key("FormCompletedAt").SetValue(timePtr(p.FormCompletedAt))
		section.Key("TrialCompletedAt").SetValue(timePtr(p.TrialCompletedAt))
	}

	return render(file)
}

func fillParticipant(section *ini.Section, p domain.Participant) {
	section.Key("ID").SetValue(fmt.Sprintf("%d", p.ID))
	section.Key("FullName").SetValue(p.FullName)
	section.Key("Phone").SetValue(p.Phone)
	section.Key("Age").SetValue(intPtr(p.Age))
	section.Key("BirthDate").SetValue(strPtr(p.BirthDate))
	section.Key("Weight").SetValue(floatPtr(p.WeightKg))
	section.Key("Height").SetValue(floatPtr(p.HeightCm))
	section.Key("Gender").SetValue(strPtr(p.Gender))
	section.Key("SkinColor").SetValue(strPtr(p.SkinColor))
	section.Key("Allergies").SetValue(strPtr(p.Allergies))
	section.Key("Notes").SetValue(strPtr(p.Notes))
}

func appendTrialDay(file *ini.File, day *domain.TrialDay, count int) error {
	section, err := file.NewSection("TrialDay")
	if err != nil {
		return err
	}

	if day != nil {
		section.Key("Date").SetValue(day.Date.Format("2006-01-02"))
		section.Key("StartTime").SetValue(strPtr(day.StartTime))
		section.Key("EndTime").SetValue(strPtr(day.EndTime))
	} else {
		section.Key("Date").SetValue("")
		section.Key("StartTime").SetValue("")
		section.Key("EndTime").SetValue("")
	}

	if count > 0 {
		section.Key("Count").SetValue(fmt.Sprintf("%d", count))
		section.Key("ExportDate").SetValue(time.Now().UTC().Format(time.RFC3339))
	}

	return nil
}

func render(file *ini.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func floatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func timePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
