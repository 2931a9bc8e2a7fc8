package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
)

var (
	ErrParticipantNotFound   = repository.ErrParticipantNotFound
	ErrQRCodeNotFound        = repository.ErrQRCodeNotFound
	ErrTrialDayNotFound      = repository.ErrTrialDayNotFound
	ErrCapacityExceeded      = errors.New("trial day has no available slots left")
	ErrFormNotCompleted      = errors.New("intake form has not been completed yet")
	ErrTrialAlreadyCompleted = errors.New("trial already completed for this participant")
)

const participantsTable = "participants"

// bulkRecordID marks the single aggregate audit entry written per bulk
// delete; the affected ids live in the entry's changes payload.
const bulkRecordID = "bulk"

type ParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	FindByID(ctx context.Context, id uint) (domain.Participant, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Participant, error)
	FindByTrialDayID(ctx context.Context, trialDayID uint) ([]domain.Participant, error)
	CountByTrialDayID(ctx context.Context, trialDayID uint) (int64, error)
	Update(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	StatsByTrialDayID(ctx context.Context, trialDayID uint) (domain.TrialDayStats, error)
}

type TrialDayFinder interface {
	FindByID(ctx context.Context, id uint) (domain.TrialDay, error)
}

// AuditRecorder appends audit entries as a side effect of state transitions.
// Implementations must never fail the transition they record.
type AuditRecorder interface {
	Record(ctx context.Context, actorID uint, action domain.AuditAction, tableName, recordID string, changes map[string]any)
}

// ArrivalNotifier delivers the check-in link after a participant is marked
// arrived. Delivery is fire-and-forget.
type ArrivalNotifier interface {
	NotifyArrival(participant domain.Participant)
}

type CheckInStatus string

const (
	CheckInCompleted        CheckInStatus = "completed"
	CheckInAlreadySubmitted CheckInStatus = "already_submitted"
)

type ParticipantService struct {
	repo      ParticipantRepository
	trialDays TrialDayFinder
	audit     AuditRecorder
	notifier  ArrivalNotifier
}

func NewParticipantService(repo ParticipantRepository, trialDays TrialDayFinder, audit AuditRecorder, notifier ArrivalNotifier) *ParticipantService {
	return &ParticipantService{
		repo:      repo,
		trialDays: trialDays,
		audit:     audit,
		notifier:  notifier,
	}
}

// Register creates a participant in the Registered state, subject to the
// trial day's slot ceiling. The capacity check is advisory: it happens
// before the insert without a transactional guard, so two overlapping
// registrations can both pass it.
func (s *ParticipantService) Register(ctx context.Context, participant domain.Participant, actorID uint) (domain.Participant, error) {
	err := validation.Errors{
		"full_name":    validation.Validate(participant.FullName, validation.Required),
		"phone":        validation.Validate(participant.Phone, validation.Required),
		"trial_day_id": validation.Validate(participant.TrialDayID, validation.Required),
	}.Filter()
	if err != nil {
		return domain.Participant{}, err
	}

	day, err := s.trialDays.FindByID(ctx, participant.TrialDayID)
	if err != nil {
		return domain.Participant{}, err
	}

	count, err := s.repo.CountByTrialDayID(ctx, day.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.CountByTrialDayID -> %w", err)
	}
	if count >= int64(day.AvailableSlots) {
		return domain.Participant{}, ErrCapacityExceeded
	}

	created, err := s.repo.Create(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditCreated, participantsTable, recordID(created.ID), map[string]any{
		"full_name":    created.FullName,
		"phone":        created.Phone,
		"trial_day_id": created.TrialDayID,
	})

	return created, nil
}

// MarkArrived transitions Registered -> Arrived and mints the single-use
// check-in token. Calling it on an already-arrived participant is a no-op
// that returns the stored record; the token is never re-minted because it
// is the form's sole credential and must stay stable once issued.
func (s *ParticipantService) MarkArrived(ctx context.Context, id uint, actorID uint) (domain.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	if participant.Arrived {
		return participant, nil
	}

	now := time.Now()
	qrCode := uuid.NewString()
	participant.Arrived = true
	participant.ArrivedAt = &now
	participant.QRCode = &qrCode

	updated, err := s.repo.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditMarkedArrive, participantsTable, recordID(id), map[string]any{
		"arrived": true,
		"qr_code": qrCode,
	})

	s.notifier.NotifyArrival(updated)

	return updated, nil
}

// CompleteForm transitions Arrived -> FormCompleted through the public
// check-in link. An unknown token is NotFound; a token whose form was
// already submitted short-circuits with CheckInAlreadySubmitted and writes
// nothing, so a reloaded page can safely resubmit.
func (s *ParticipantService) CompleteForm(ctx context.Context, qrCode string, form domain.CheckInForm, actorID uint) (domain.Participant, CheckInStatus, error) {
	participant, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Participant{}, "", err
	}

	if participant.FormCompleted {
		return participant, CheckInAlreadySubmitted, nil
	}

	if err = validateCheckInForm(form); err != nil {
		return domain.Participant{}, "", err
	}

	now := time.Now()
	signature := "agreed"
	participant.FullName = form.FullName
	participant.Age = &form.Age
	participant.WeightKg = &form.WeightKg
	participant.HeightCm = &form.HeightCm
	participant.Gender = &form.Gender
	participant.BirthDate = form.BirthDate
	participant.SkinColor = form.SkinColor
	participant.Allergies = form.Allergies
	participant.Notes = form.Notes
	participant.FormCompleted = true
	participant.FormCompletedAt = &now
	participant.DigitalSignature = &signature

	updated, err := s.repo.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, "", fmt.Errorf("s.repo.Update -> %w", err)
	}

	// Unauthenticated submissions are keyed to the participant's own
	// record id as the implicit actor.
	if actorID == 0 {
		actorID = participant.ID
	}
	s.audit.Record(ctx, actorID, domain.AuditFormSubmit, participantsTable, recordID(participant.ID), map[string]any{
		"form_completed": true,
	})

	return updated, CheckInCompleted, nil
}

// ResolveQRCode looks up the participant the public form should render for.
func (s *ParticipantService) ResolveQRCode(ctx context.Context, qrCode string) (domain.Participant, error) {
	participant, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Participant{}, err
	}

	return participant, nil
}

// MarkTrialCompleted transitions FormCompleted -> TrialCompleted. The form
// gate is a hard precondition here, not just UI disablement.
func (s *ParticipantService) MarkTrialCompleted(ctx context.Context, id uint, actorID uint) (domain.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	if !participant.FormCompleted {
		return domain.Participant{}, ErrFormNotCompleted
	}
	if participant.TrialCompleted {
		return domain.Participant{}, ErrTrialAlreadyCompleted
	}

	now := time.Now()
	participant.TrialCompleted = true
	participant.TrialCompletedAt = &now

	updated, err := s.repo.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdated, participantsTable, recordID(id), map[string]any{
		"trial_completed": true,
	})

	return updated, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, id uint) (domain.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	return participant, nil
}

func (s *ParticipantService) ListByTrialDay(ctx context.Context, trialDayID uint) ([]domain.Participant, error) {
	participants, err := s.repo.FindByTrialDayID(ctx, trialDayID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByTrialDayID -> %w", err)
	}

	return participants, nil
}

// UpdateDetails applies an administrative edit to the registration fields.
// Lifecycle flags are not touchable through this path.
func (s *ParticipantService) UpdateDetails(ctx context.Context, participant domain.Participant, actorID uint) (domain.Participant, error) {
	existing, err := s.repo.FindByID(ctx, participant.ID)
	if err != nil {
		return domain.Participant{}, err
	}

	err = validation.Errors{
		"full_name": validation.Validate(participant.FullName, validation.Required),
		"phone":     validation.Validate(participant.Phone, validation.Required),
	}.Filter()
	if err != nil {
		return domain.Participant{}, err
	}

	existing.FullName = participant.FullName
	existing.Phone = participant.Phone
	existing.Age = participant.Age
	existing.BirthDate = participant.BirthDate
	existing.WeightKg = participant.WeightKg
	existing.HeightCm = participant.HeightCm
	existing.Gender = participant.Gender
	existing.SkinColor = participant.SkinColor
	existing.Allergies = participant.Allergies
	existing.Notes = participant.Notes
	existing.StationID = participant.StationID
	existing.DesiredArrivalTime = participant.DesiredArrivalTime

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdated, participantsTable, recordID(updated.ID), map[string]any{
		"full_name": updated.FullName,
		"phone":     updated.Phone,
	})

	return updated, nil
}

func (s *ParticipantService) Delete(ctx context.Context, id uint, actorID uint) error {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDeleted, participantsTable, recordID(id), map[string]any{
		"full_name": participant.FullName,
	})

	return nil
}

func (s *ParticipantService) BulkDelete(ctx context.Context, ids []uint, actorID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("s.repo.DeleteByIDs -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditBulkDeleted, participantsTable, bulkRecordID, map[string]any{
		"count": deleted,
		"ids":   ids,
	})

	return deleted, nil
}

// ShareCheckInLink re-reads the participant whose check-in link is about to
// be handed out and records that the token left the system.
func (s *ParticipantService) ShareCheckInLink(ctx context.Context, id uint, actorID uint) (domain.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	if participant.QRCode != nil {
		s.audit.Record(ctx, actorID, domain.AuditQRGenerated, participantsTable, recordID(id), map[string]any{
			"qr_code": *participant.QRCode,
		})
	}

	return participant, nil
}

func (s *ParticipantService) StatsByTrialDay(ctx context.Context, trialDayID uint) (domain.TrialDayStats, error) {
	day, err := s.trialDays.FindByID(ctx, trialDayID)
	if err != nil {
		return domain.TrialDayStats{}, err
	}

	stats, err := s.repo.StatsByTrialDayID(ctx, day.ID)
	if err != nil {
		return domain.TrialDayStats{}, fmt.Errorf("s.repo.StatsByTrialDayID -> %w", err)
	}

	stats.AvailableSlots = day.AvailableSlots
	return stats, nil
}

func validateCheckInForm(form domain.CheckInForm) error {
	return validation.Errors{
		"full_name": validation.Validate(form.FullName, validation.Required),
		"age":       validation.Validate(form.Age, validation.Required, validation.Min(1), validation.Max(150)),
		"weight_kg": validation.Validate(form.WeightKg, validation.Required, validation.Min(20.0), validation.Max(200.0)),
		"height_cm": validation.Validate(form.HeightCm, validation.Required, validation.Min(100.0), validation.Max(250.0)),
		"gender":    validation.Validate(form.Gender, validation.Required),
		"consent":   validation.Validate(form.Consent, validation.Required, validation.In(true)),
	}.Filter()
}

func recordID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
