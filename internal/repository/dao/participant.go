package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrQRCodeNotFound      = errors.New("no participant matches this QR code")
	ErrQRCodeTaken         = errors.New("QR code already in use")
)

type Participant struct {
	ID         uint   `gorm:"primaryKey"`
	TrialDayID uint   `gorm:"not null;index"`
	FullName   string `gorm:"not null"`
	Phone      string `gorm:"not null"`

	Age                *int
	BirthDate          *string
	WeightKg           *float64
	HeightCm           *float64
	Gender             *string
	SkinColor          *string
	Allergies          *string
	Notes              *string
	StationID          *uint `gorm:"index"`
	Station            *Station
	DesiredArrivalTime *string

	Arrived          bool `gorm:"not null;default:false"`
	ArrivedAt        *time.Time
	FormCompleted    bool `gorm:"not null;default:false"`
	FormCompletedAt  *time.Time
	TrialCompleted   bool `gorm:"not null;default:false"`
	TrialCompletedAt *time.Time

	QRCode           *string `gorm:"uniqueIndex:uni_participants_qr_code"`
	DigitalSignature *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) Insert(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Create(&participant)
	if result.Error != nil {
		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByID(ctx context.Context, id uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByQRCode(ctx context.Context, qrCode string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, "qr_code = ?", qrCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrQRCodeNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByTrialDayID(ctx context.Context, trialDayID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("trial_day_id = ?", trialDayID).
		Order("created_at").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ParticipantDAO) CountByTrialDayID(ctx context.Context, trialDayID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Participant{}).
		Where("trial_day_id = ?", trialDayID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Update writes the full row. The unique index on qr_code backs the token
// uniqueness guarantee; a collision comes back as ErrQRCodeTaken.
func (d *ParticipantDAO) Update(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Save(&participant)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uni_participants_qr_code") {
			return Participant{}, ErrQRCodeTaken
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Participant{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

func (d *ParticipantDAO) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	result := d.db.WithContext(ctx).Delete(&Participant{}, ids)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CountStatsByTrialDayID aggregates the lifecycle flags for one trial day.
func (d *ParticipantDAO) CountStatsByTrialDayID(ctx context.Context, trialDayID uint) (registered, arrived, formCompleted, trialCompleted int64, err error) {
	base := d.db.WithContext(ctx).Model(&Participant{}).Where("trial_day_id = ?", trialDayID)

	if err = base.Session(&gorm.Session{}).Count(&registered).Error; err != nil {
		return 0, 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("arrived").Count(&arrived).Error; err != nil {
		return 0, 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("form_completed").Count(&formCompleted).Error; err != nil {
		return 0, 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("trial_completed").Count(&trialCompleted).Error; err != nil {
		return 0, 0, 0, 0, err
	}

	return registered, arrived, formCompleted, trialCompleted, nil
}
