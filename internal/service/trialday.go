package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

const trialDaysTable = "trial_days"

type TrialDayRepository interface {
	Create(ctx context.Context, day domain.TrialDay, stationIDs []uint) (domain.TrialDay, error)
	FindByID(ctx context.Context, id uint) (domain.TrialDay, error)
	FindAll(ctx context.Context) ([]domain.TrialDay, error)
	Update(ctx context.Context, day domain.TrialDay, stationIDs []uint) (domain.TrialDay, error)
	Delete(ctx context.Context, id uint) error
}

type TrialDayService struct {
	repo  TrialDayRepository
	audit AuditRecorder
}

func NewTrialDayService(repo TrialDayRepository, audit AuditRecorder) *TrialDayService {
	return &TrialDayService{
		repo:  repo,
		audit: audit,
	}
}

func (s *TrialDayService) CreateTrialDay(ctx context.Context, day domain.TrialDay, stationIDs []uint, actorID uint) (domain.TrialDay, error) {
	if err := validateTrialDay(day); err != nil {
		return domain.TrialDay{}, err
	}

	created, err := s.repo.Create(ctx, day, stationIDs)
	if err != nil {
		return domain.TrialDay{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditCreated, trialDaysTable, recordID(created.ID), map[string]any{
		"date":            created.Date.Format("2006-01-02"),
		"available_slots": created.AvailableSlots,
	})

	return created, nil
}

func (s *TrialDayService) GetTrialDay(ctx context.Context, id uint) (domain.TrialDay, error) {
	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.TrialDay{}, err
	}

	return day, nil
}

// FindByID satisfies the participant service's TrialDayFinder.
func (s *TrialDayService) FindByID(ctx context.Context, id uint) (domain.TrialDay, error) {
	return s.GetTrialDay(ctx, id)
}

func (s *TrialDayService) ListTrialDays(ctx context.Context) ([]domain.TrialDay, error) {
	days, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return days, nil
}

func (s *TrialDayService) UpdateTrialDay(ctx context.Context, day domain.TrialDay, stationIDs []uint, actorID uint) (domain.TrialDay, error) {
	if err := validateTrialDay(day); err != nil {
		return domain.TrialDay{}, err
	}

	existing, err := s.repo.FindByID(ctx, day.ID)
	if err != nil {
		return domain.TrialDay{}, err
	}

	existing.Date = day.Date
	existing.StartTime = day.StartTime
	existing.EndTime = day.EndTime
	existing.AvailableSlots = day.AvailableSlots
	existing.Notes = day.Notes

	updated, err := s.repo.Update(ctx, existing, stationIDs)
	if err != nil {
		return domain.TrialDay{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdated, trialDaysTable, recordID(updated.ID), map[string]any{
		"date":            updated.Date.Format("2006-01-02"),
		"available_slots": updated.AvailableSlots,
	})

	return updated, nil
}

// DeleteTrialDay removes the day; its participants go with it at the store
// layer.
func (s *TrialDayService) DeleteTrialDay(ctx context.Context, id uint, actorID uint) error {
	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDeleted, trialDaysTable, recordID(id), map[string]any{
		"date": day.Date.Format("2006-01-02"),
	})

	return nil
}

func validateTrialDay(day domain.TrialDay) error {
	return validation.Errors{
		"date":            validation.Validate(day.Date, validation.Required),
		"available_slots": validation.Validate(day.AvailableSlots, validation.Min(0)),
	}.Filter()
}
