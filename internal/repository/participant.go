package repository

import (
	"context"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrQRCodeNotFound      = dao.ErrQRCodeNotFound
	ErrQRCodeTaken         = dao.ErrQRCodeTaken
)

type ParticipantDAO interface {
	Insert(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	FindByID(ctx context.Context, id uint) (dao.Participant, error)
	FindByQRCode(ctx context.Context, qrCode string) (dao.Participant, error)
	FindByTrialDayID(ctx context.Context, trialDayID uint) ([]dao.Participant, error)
	CountByTrialDayID(ctx context.Context, trialDayID uint) (int64, error)
	Update(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	CountStatsByTrialDayID(ctx context.Context, trialDayID uint) (registered, arrived, formCompleted, trialCompleted int64, err error)
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.Insert(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(created), nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id uint) (domain.Participant, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByQRCode(ctx context.Context, qrCode string) (domain.Participant, error) {
	found, err := r.dao.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByTrialDayID(ctx context.Context, trialDayID uint) ([]domain.Participant, error) {
	found, err := r.dao.FindByTrialDayID(ctx, trialDayID)
	if err != nil {
		return nil, err
	}

	participants := make([]domain.Participant, len(found))
	for i, p := range found {
		participants[i] = participantDaoToDomain(p)
	}

	return participants, nil
}

func (r *ParticipantRepository) CountByTrialDayID(ctx context.Context, trialDayID uint) (int64, error) {
	return r.dao.CountByTrialDayID(ctx, trialDayID)
}

func (r *ParticipantRepository) Update(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	updated, err := r.dao.Update(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(updated), nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uint) error {
	return r.dao.Delete(ctx, id)
}

func (r *ParticipantRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	return r.dao.DeleteByIDs(ctx, ids)
}

func (r *ParticipantRepository) StatsByTrialDayID(ctx context.Context, trialDayID uint) (domain.TrialDayStats, error) {
	registered, arrived, formCompleted, trialCompleted, err := r.dao.CountStatsByTrialDayID(ctx, trialDayID)
	if err != nil {
		return domain.TrialDayStats{}, err
	}

	return domain.TrialDayStats{
		TrialDayID:     trialDayID,
		Registered:     int(registered),
		Arrived:        int(arrived),
		FormCompleted:  int(formCompleted),
		TrialCompleted: int(trialCompleted),
	}, nil
}

func participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:                 p.ID,
		TrialDayID:         p.TrialDayID,
		FullName:           p.FullName,
		Phone:              p.Phone,
		Age:                p.Age,
		BirthDate:          p.BirthDate,
		WeightKg:           p.WeightKg,
		HeightCm:           p.HeightCm,
		Gender:             p.Gender,
		SkinColor:          p.SkinColor,
		Allergies:          p.Allergies,
		Notes:              p.Notes,
		StationID:          p.StationID,
		DesiredArrivalTime: p.DesiredArrivalTime,
		Arrived:            p.Arrived,
		ArrivedAt:          p.ArrivedAt,
		FormCompleted:      p.FormCompleted,
		FormCompletedAt:    p.FormCompletedAt,
		TrialCompleted:     p.TrialCompleted,
		TrialCompletedAt:   p.TrialCompletedAt,
		QRCode:             p.QRCode,
		DigitalSignature:   p.DigitalSignature,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:                 p.ID,
		TrialDayID:         p.TrialDayID,
		FullName:           p.FullName,
		Phone:              p.Phone,
		Age:                p.Age,
		BirthDate:          p.BirthDate,
		WeightKg:           p.WeightKg,
		HeightCm:           p.HeightCm,
		Gender:             p.Gender,
		SkinColor:          p.SkinColor,
		Allergies:          p.Allergies,
		Notes:              p.Notes,
		StationID:          p.StationID,
		DesiredArrivalTime: p.DesiredArrivalTime,
		Arrived:            p.Arrived,
		ArrivedAt:          p.ArrivedAt,
		FormCompleted:      p.FormCompleted,
		FormCompletedAt:    p.FormCompletedAt,
		TrialCompleted:     p.TrialCompleted,
		TrialCompletedAt:   p.TrialCompletedAt,
		QRCode:             p.QRCode,
		DigitalSignature:   p.DigitalSignature,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
