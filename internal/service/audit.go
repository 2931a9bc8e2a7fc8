package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

type AuditLogRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
	FindNewerThan(ctx context.Context, lastID uint, limit int) ([]domain.AuditEntry, error)
}

type AuditService struct {
	repo AuditLogRepository
}

func NewAuditService(repo AuditLogRepository) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// Record appends an audit entry for a state change that already happened.
// A failed append must never roll back or block the transition it records,
// so failures are logged and swallowed here.
func (s *AuditService) Record(ctx context.Context, actorID uint, action domain.AuditAction, tableName, recordID string, changes map[string]any) {
	entry := domain.AuditEntry{
		UserID:    actorID,
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		Changes:   changes,
		CreatedAt: time.Now(),
	}

	if _, err := s.repo.Append(ctx, entry); err != nil {
		zap.L().Warn("audit append failed",
			zap.String("action", string(action)),
			zap.String("table", tableName),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}

func (s *AuditService) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return entries, nil
}

func (s *AuditService) NewerThan(ctx context.Context, lastID uint, limit int) ([]domain.AuditEntry, error) {
	entries, err := s.repo.FindNewerThan(ctx, lastID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindNewerThan -> %w", err)
	}

	return entries, nil
}
