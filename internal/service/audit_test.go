package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

type stubAuditRepo struct {
	entries   []domain.AuditEntry
	appendErr error

	lastLimit  int
	lastOffset int
}

func (s *stubAuditRepo) Append(_ context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	if s.appendErr != nil {
		return domain.AuditEntry{}, s.appendErr
	}
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *stubAuditRepo) FindAll(_ context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.entries, nil
}

func (s *stubAuditRepo) FindNewerThan(_ context.Context, lastID uint, _ int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, e := range s.entries {
		if e.ID > lastID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the entry", func(t *testing.T) {
		repo := &stubAuditRepo{}
		svc := NewAuditService(repo)

		svc.Record(ctx, 7, domain.AuditCreated, "participants", "1", map[string]any{"full_name": "Dana Levi"})

		require.Len(t, repo.entries, 1)
		assert.Equal(t, uint(7), repo.entries[0].UserID)
		assert.Equal(t, domain.AuditCreated, repo.entries[0].Action)
		assert.False(t, repo.entries[0].CreatedAt.IsZero())
	})

	t.Run("swallows append failures", func(t *testing.T) {
		repo := &stubAuditRepo{appendErr: errors.New("connection refused")}
		svc := NewAuditService(repo)

		// Must not panic or surface the error to the caller.
		svc.Record(ctx, 7, domain.AuditCreated, "participants", "1", nil)

		assert.Empty(t, repo.entries)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 50, 0},
		{"limit kept in range", 100, 10, 100, 10},
		{"oversized limit clamped", 1000, 0, 50, 0},
		{"negative offset clamped", 20, -5, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubAuditRepo{}
			svc := NewAuditService(repo)

			_, err := svc.List(ctx, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, repo.lastLimit)
			assert.Equal(t, tt.wantOffset, repo.lastOffset)
		})
	}
}

func TestNewerThan(t *testing.T) {
	ctx := context.Background()

	repo := &stubAuditRepo{}
	svc := NewAuditService(repo)

	svc.Record(ctx, 1, domain.AuditCreated, "participants", "1", nil)
	svc.Record(ctx, 1, domain.AuditMarkedArrive, "participants", "1", nil)

	newer, err := svc.NewerThan(ctx, 1, 50)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, domain.AuditMarkedArrive, newer[0].Action)
}
