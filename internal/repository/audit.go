package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository/dao"
)

type AuditLogDAO interface {
	Insert(ctx context.Context, entry dao.AuditLog) (dao.AuditLog, error)
	FindAll(ctx context.Context, limit, offset int) ([]dao.AuditLog, error)
	FindNewerThan(ctx context.Context, lastID uint, limit int) ([]dao.AuditLog, error)
}

type AuditLogRepository struct {
	dao AuditLogDAO
}

func NewAuditLogRepository(dao AuditLogDAO) *AuditLogRepository {
	return &AuditLogRepository{
		dao: dao,
	}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	row, err := auditDomainToDao(entry)
	if err != nil {
		return domain.AuditEntry{}, err
	}

	created, err := r.dao.Insert(ctx, row)
	if err != nil {
		return domain.AuditEntry{}, err
	}

	return auditDaoToDomain(created)
}

func (r *AuditLogRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	rows, err := r.dao.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return auditDaosToDomain(rows)
}

func (r *AuditLogRepository) FindNewerThan(ctx context.Context, lastID uint, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.dao.FindNewerThan(ctx, lastID, limit)
	if err != nil {
		return nil, err
	}

	return auditDaosToDomain(rows)
}

func auditDaosToDomain(rows []dao.AuditLog) ([]domain.AuditEntry, error) {
	entries := make([]domain.AuditEntry, len(rows))
	for i, row := range rows {
		entry, err := auditDaoToDomain(row)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}

	return entries, nil
}

func auditDomainToDao(entry domain.AuditEntry) (dao.AuditLog, error) {
	var changes []byte
	if entry.Changes != nil {
		marshaled, err := json.Marshal(entry.Changes)
		if err != nil {
			return dao.AuditLog{}, fmt.Errorf("json.Marshal changes -> %w", err)
		}
		changes = marshaled
	}

	return dao.AuditLog{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    string(entry.Action),
		Table:     entry.TableName,
		RecordID:  entry.RecordID,
		Changes:   changes,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func auditDaoToDomain(row dao.AuditLog) (domain.AuditEntry, error) {
	var changes map[string]any
	if len(row.Changes) > 0 {
		if err := json.Unmarshal(row.Changes, &changes); err != nil {
			return domain.AuditEntry{}, fmt.Errorf("json.Unmarshal changes -> %w", err)
		}
	}

	return domain.AuditEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Action:    domain.AuditAction(row.Action),
		TableName: row.Table,
		RecordID:  row.RecordID,
		Changes:   changes,
		CreatedAt: row.CreatedAt,
	}, nil
}
