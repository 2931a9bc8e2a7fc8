package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
)

type stubParticipantRepo struct {
	participants map[uint]domain.Participant
	nextID       uint
}

func newStubParticipantRepo() *stubParticipantRepo {
	return &stubParticipantRepo{
		participants: map[uint]domain.Participant{},
		nextID:       1,
	}
}

func (s *stubParticipantRepo) Create(_ context.Context, participant domain.Participant) (domain.Participant, error) {
	participant.ID = s.nextID
	s.nextID++
	s.participants[participant.ID] = participant
	return participant, nil
}

func (s *stubParticipantRepo) FindByID(_ context.Context, id uint) (domain.Participant, error) {
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}
	return p, nil
}

func (s *stubParticipantRepo) FindByQRCode(_ context.Context, qrCode string) (domain.Participant, error) {
	for _, p := range s.participants {
		if p.QRCode != nil && *p.QRCode == qrCode {
			return p, nil
		}
	}
	return domain.Participant{}, repository.ErrQRCodeNotFound
}

func (s *stubParticipantRepo) FindByTrialDayID(_ context.Context, trialDayID uint) ([]domain.Participant, error) {
	var out []domain.Participant
	for _, p := range s.participants {
		if p.TrialDayID == trialDayID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubParticipantRepo) CountByTrialDayID(_ context.Context, trialDayID uint) (int64, error) {
	var count int64
	for _, p := range s.participants {
		if p.TrialDayID == trialDayID {
			count++
		}
	}
	return count, nil
}

func (s *stubParticipantRepo) Update(_ context.Context, participant domain.Participant) (domain.Participant, error) {
	if _, ok := s.participants[participant.ID]; !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}
	s.participants[participant.ID] = participant
	return participant, nil
}

func (s *stubParticipantRepo) Delete(_ context.Context, id uint) error {
	if _, ok := s.participants[id]; !ok {
		return repository.ErrParticipantNotFound
	}
	delete(s.participants, id)
	return nil
}

func (s *stubParticipantRepo) DeleteByIDs(_ context.Context, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := s.participants[id]; ok {
			delete(s.participants, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *stubParticipantRepo) StatsByTrialDayID(_ context.Context, trialDayID uint) (domain.TrialDayStats, error) {
	stats := domain.TrialDayStats{TrialDayID: trialDayID}
	for _, p := range s.participants {
		if p.TrialDayID != trialDayID {
			continue
		}
		stats.Registered++
		if p.Arrived {
			stats.Arrived++
		}
		if p.FormCompleted {
			stats.FormCompleted++
		}
		if p.TrialCompleted {
			stats.TrialCompleted++
		}
	}
	return stats, nil
}

type stubTrialDayFinder struct {
	days map[uint]domain.TrialDay
}

func (s *stubTrialDayFinder) FindByID(_ context.Context, id uint) (domain.TrialDay, error) {
	day, ok := s.days[id]
	if !ok {
		return domain.TrialDay{}, repository.ErrTrialDayNotFound
	}
	return day, nil
}

type recordedAudit struct {
	actorID  uint
	action   domain.AuditAction
	table    string
	recordID string
	changes  map[string]any
}

type recordingAudit struct {
	entries []recordedAudit
}

func (r *recordingAudit) Record(_ context.Context, actorID uint, action domain.AuditAction, tableName, recordID string, changes map[string]any) {
	r.entries = append(r.entries, recordedAudit{
		actorID:  actorID,
		action:   action,
		table:    tableName,
		recordID: recordID,
		changes:  changes,
	})
}

func (r *recordingAudit) byAction(action domain.AuditAction) []recordedAudit {
	var out []recordedAudit
	for _, e := range r.entries {
		if e.action == action {
			out = append(out, e)
		}
	}
	return out
}

type recordingNotifier struct {
	notified []domain.Participant
}

func (r *recordingNotifier) NotifyArrival(participant domain.Participant) {
	r.notified = append(r.notified, participant)
}

func newTestParticipantService(slots int) (*ParticipantService, *stubParticipantRepo, *recordingAudit, *recordingNotifier) {
	repo := newStubParticipantRepo()
	finder := &stubTrialDayFinder{days: map[uint]domain.TrialDay{
		1: {ID: 1, AvailableSlots: slots},
	}}
	audit := &recordingAudit{}
	notifier := &recordingNotifier{}
	svc := NewParticipantService(repo, finder, audit, notifier)

	return svc, repo, audit, notifier
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates participant and audits it", func(t *testing.T) {
		svc, _, audit, _ := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
		}, 7)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.Arrived)
		assert.Nil(t, created.QRCode)

		entries := audit.byAction(domain.AuditCreated)
		require.Len(t, entries, 1)
		assert.Equal(t, uint(7), entries[0].actorID)
		assert.Equal(t, "participants", entries[0].table)
		assert.Equal(t, "Dana Levi", entries[0].changes["full_name"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _, audit, _ := newTestParticipantService(10)

		_, err := svc.Register(ctx, domain.Participant{TrialDayID: 1}, 7)

		require.Error(t, err)
		assert.Empty(t, audit.entries)
	})

	t.Run("rejects unknown trial day", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)

		_, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 99,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
		}, 7)

		assert.ErrorIs(t, err, ErrTrialDayNotFound)
	})

	t.Run("enforces the slot ceiling", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(1)

		_, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
		}, 7)
		require.NoError(t, err)

		_, err = svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Noa Cohen",
			Phone:      "0527654321",
		}, 7)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("deleting a participant frees the slot", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(1)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Dana Levi",
			Phone:      "0521234567",
		}, 7)
		require.NoError(t, err)

		_, err = svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Noa Cohen",
			Phone:      "0527654321",
		}, 7)
		require.ErrorIs(t, err, ErrCapacityExceeded)

		require.NoError(t, svc.Delete(ctx, created.ID, 7))

		replacement, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1,
			FullName:   "Noa Cohen",
			Phone:      "0527654321",
		}, 7)
		require.NoError(t, err)
		assert.NotZero(t, replacement.ID)
	})
}

func TestMarkArrived(t *testing.T) {
	ctx := context.Background()

	t.Run("mints the token once and keeps it stable", func(t *testing.T) {
		svc, _, audit, notifier := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)

		arrived, err := svc.MarkArrived(ctx, created.ID, 7)
		require.NoError(t, err)
		require.NotNil(t, arrived.QRCode)
		require.NotNil(t, arrived.ArrivedAt)
		assert.True(t, arrived.Arrived)

		firstToken := *arrived.QRCode

		again, err := svc.MarkArrived(ctx, created.ID, 7)
		require.NoError(t, err)
		require.NotNil(t, again.QRCode)
		assert.Equal(t, firstToken, *again.QRCode)
		assert.Equal(t, arrived.ArrivedAt, again.ArrivedAt)

		// One transition, one audit entry, one notification.
		assert.Len(t, audit.byAction(domain.AuditMarkedArrive), 1)
		assert.Len(t, notifier.notified, 1)
	})

	t.Run("unknown participant", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)

		_, err := svc.MarkArrived(ctx, 42, 7)

		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})
}

func TestCompleteForm(t *testing.T) {
	ctx := context.Background()

	validForm := domain.CheckInForm{
		FullName: "Dana Levi",
		Age:      30,
		WeightKg: 62,
		HeightCm: 168,
		Gender:   "female",
		Consent:  true,
	}

	arrive := func(t *testing.T, svc *ParticipantService) string {
		t.Helper()
		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)
		arrived, err := svc.MarkArrived(ctx, created.ID, 7)
		require.NoError(t, err)
		require.NotNil(t, arrived.QRCode)
		return *arrived.QRCode
	}

	t.Run("first submission completes the form", func(t *testing.T) {
		svc, _, audit, _ := newTestParticipantService(10)
		token := arrive(t, svc)

		updated, status, err := svc.CompleteForm(ctx, token, validForm, 0)

		require.NoError(t, err)
		assert.Equal(t, CheckInCompleted, status)
		assert.True(t, updated.FormCompleted)
		require.NotNil(t, updated.FormCompletedAt)
		require.NotNil(t, updated.DigitalSignature)
		assert.Equal(t, "agreed", *updated.DigitalSignature)

		entries := audit.byAction(domain.AuditFormSubmit)
		require.Len(t, entries, 1)
		// Anonymous submissions are attributed to the participant record.
		assert.Equal(t, updated.ID, entries[0].actorID)
	})

	t.Run("repeat submission is a read-only no-op", func(t *testing.T) {
		svc, repo, audit, _ := newTestParticipantService(10)
		token := arrive(t, svc)

		first, _, err := svc.CompleteForm(ctx, token, validForm, 0)
		require.NoError(t, err)

		altered := validForm
		altered.FullName = "Someone Else"
		again, status, err := svc.CompleteForm(ctx, token, altered, 0)

		require.NoError(t, err)
		assert.Equal(t, CheckInAlreadySubmitted, status)
		assert.Equal(t, first.FullName, again.FullName)
		assert.Equal(t, first.FormCompletedAt, again.FormCompletedAt)

		stored := repo.participants[first.ID]
		assert.Equal(t, "Dana Levi", stored.FullName)
		assert.Len(t, audit.byAction(domain.AuditFormSubmit), 1)
	})

	t.Run("rejects out-of-range measurements", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)
		token := arrive(t, svc)

		bad := validForm
		bad.WeightKg = 500

		_, _, err := svc.CompleteForm(ctx, token, bad, 0)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrQRCodeNotFound))
	})

	t.Run("rejects missing consent", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)
		token := arrive(t, svc)

		bad := validForm
		bad.Consent = false

		_, _, err := svc.CompleteForm(ctx, token, bad, 0)
		require.Error(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)

		_, _, err := svc.CompleteForm(ctx, "no-such-token", validForm, 0)

		assert.ErrorIs(t, err, ErrQRCodeNotFound)
	})
}

func TestMarkTrialCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a completed form", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)

		_, err = svc.MarkTrialCompleted(ctx, created.ID, 7)

		assert.ErrorIs(t, err, ErrFormNotCompleted)
	})

	t.Run("completes once and only once", func(t *testing.T) {
		svc, _, _, _ := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)
		arrived, err := svc.MarkArrived(ctx, created.ID, 7)
		require.NoError(t, err)
		_, _, err = svc.CompleteForm(ctx, *arrived.QRCode, domain.CheckInForm{
			FullName: "Dana Levi", Age: 30, WeightKg: 62, HeightCm: 168, Gender: "female", Consent: true,
		}, 0)
		require.NoError(t, err)

		completed, err := svc.MarkTrialCompleted(ctx, created.ID, 7)
		require.NoError(t, err)
		assert.True(t, completed.TrialCompleted)
		require.NotNil(t, completed.TrialCompletedAt)

		_, err = svc.MarkTrialCompleted(ctx, created.ID, 7)
		assert.ErrorIs(t, err, ErrTrialAlreadyCompleted)
	})
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()

	svc, _, audit, _ := newTestParticipantService(10)

	var ids []uint
	for _, name := range []string{"Dana Levi", "Noa Cohen", "Yael Mor"} {
		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: name, Phone: "0521234567",
		}, 7)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	deleted, err := svc.BulkDelete(ctx, ids, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	// One aggregate entry for the whole batch, not one per row.
	entries := audit.byAction(domain.AuditBulkDeleted)
	require.Len(t, entries, 1)
	assert.Equal(t, "bulk", entries[0].recordID)
	assert.Equal(t, int64(3), entries[0].changes["count"])
	assert.Equal(t, ids, entries[0].changes["ids"])
}

func TestShareCheckInLink(t *testing.T) {
	ctx := context.Background()

	t.Run("audits the token leaving the system", func(t *testing.T) {
		svc, _, audit, _ := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)
		arrived, err := svc.MarkArrived(ctx, created.ID, 7)
		require.NoError(t, err)

		_, err = svc.ShareCheckInLink(ctx, created.ID, 7)
		require.NoError(t, err)

		entries := audit.byAction(domain.AuditQRGenerated)
		require.Len(t, entries, 1)
		assert.Equal(t, *arrived.QRCode, entries[0].changes["qr_code"])
	})

	t.Run("no audit before the token exists", func(t *testing.T) {
		svc, _, audit, _ := newTestParticipantService(10)

		created, err := svc.Register(ctx, domain.Participant{
			TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
		}, 7)
		require.NoError(t, err)

		_, err = svc.ShareCheckInLink(ctx, created.ID, 7)
		require.NoError(t, err)

		assert.Empty(t, audit.byAction(domain.AuditQRGenerated))
	})
}

func TestStatsByTrialDay(t *testing.T) {
	ctx := context.Background()

	svc, _, _, _ := newTestParticipantService(5)

	dana, err := svc.Register(ctx, domain.Participant{
		TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
	}, 7)
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.Participant{
		TrialDayID: 1, FullName: "Noa Cohen", Phone: "0527654321",
	}, 7)
	require.NoError(t, err)

	arrived, err := svc.MarkArrived(ctx, dana.ID, 7)
	require.NoError(t, err)
	_, _, err = svc.CompleteForm(ctx, *arrived.QRCode, domain.CheckInForm{
		FullName: "Dana Levi", Age: 30, WeightKg: 62, HeightCm: 168, Gender: "female", Consent: true,
	}, 0)
	require.NoError(t, err)

	stats, err := svc.StatsByTrialDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Registered)
	assert.Equal(t, 1, stats.Arrived)
	assert.Equal(t, 1, stats.FormCompleted)
	assert.Equal(t, 0, stats.TrialCompleted)
	assert.Equal(t, 5, stats.AvailableSlots)
}

// Mirrors a full intake day: one slot, two candidates, the lifecycle driven
// end to end for the one who got the slot.
func TestIntakeDayFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, audit, notifier := newTestParticipantService(1)

	dana, err := svc.Register(ctx, domain.Participant{
		TrialDayID: 1, FullName: "Dana Levi", Phone: "0521234567",
	}, 7)
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.Participant{
		TrialDayID: 1, FullName: "Noa Cohen", Phone: "0527654321",
	}, 7)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.MarkTrialCompleted(ctx, dana.ID, 7)
	require.ErrorIs(t, err, ErrFormNotCompleted)

	arrived, err := svc.MarkArrived(ctx, dana.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, arrived.QRCode)
	require.Len(t, notifier.notified, 1)

	_, status, err := svc.CompleteForm(ctx, *arrived.QRCode, domain.CheckInForm{
		FullName: "Dana Levi", Age: 30, WeightKg: 62, HeightCm: 168, Gender: "female", Consent: true,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, CheckInCompleted, status)

	completed, err := svc.MarkTrialCompleted(ctx, dana.ID, 7)
	require.NoError(t, err)
	assert.True(t, completed.Arrived)
	assert.True(t, completed.FormCompleted)
	assert.True(t, completed.TrialCompleted)

	// created, marked_arrived, form_submitted, trial completion update.
	assert.Len(t, audit.entries, 4)
}
