package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AuditLog is append-only. No Update or Delete method exists on purpose.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Action    string `gorm:"not null;index"`
	Table     string `gorm:"column:table_name;not null;index"`
	RecordID  string `gorm:"not null"`
	Changes   []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (AuditLog) TableName() string {
	return "audit_log"
}

type AuditLogDAO struct {
	db *gorm.DB
}

func NewAuditLogDAO(db *gorm.DB) *AuditLogDAO {
	return &AuditLogDAO{
		db: db,
	}
}

func (d *AuditLogDAO) Insert(ctx context.Context, entry AuditLog) (AuditLog, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		return AuditLog{}, result.Error
	}

	return entry, nil
}

func (d *AuditLogDAO) FindAll(ctx context.Context, limit, offset int) ([]AuditLog, error) {
	var entries []AuditLog

	result := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

func (d *AuditLogDAO) FindNewerThan(ctx context.Context, lastID uint, limit int) ([]AuditLog, error) {
	var entries []AuditLog

	result := d.db.WithContext(ctx).
		Where("id > ?", lastID).
		Order("id").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
