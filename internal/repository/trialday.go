package repository

import (
	"context"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository/dao"
)

var ErrTrialDayNotFound = dao.ErrTrialDayNotFound

type TrialDayDAO interface {
	Insert(ctx context.Context, day dao.TrialDay, stationIDs []uint) (dao.TrialDay, error)
	FindByID(ctx context.Context, id uint) (dao.TrialDay, error)
	FindAll(ctx context.Context) ([]dao.TrialDay, error)
	Update(ctx context.Context, day dao.TrialDay, stationIDs []uint) (dao.TrialDay, error)
	Delete(ctx context.Context, id uint) error
}

type TrialDayRepository struct {
	dao TrialDayDAO
}

func NewTrialDayRepository(dao TrialDayDAO) *TrialDayRepository {
	return &TrialDayRepository{
		dao: dao,
	}
}

func (r *TrialDayRepository) Create(ctx context.Context, day domain.TrialDay, stationIDs []uint) (domain.TrialDay, error) {
	created, err := r.dao.Insert(ctx, trialDayDomainToDao(day), stationIDs)
	if err != nil {
		return domain.TrialDay{}, err
	}

	return trialDayDaoToDomain(created), nil
}

func (r *TrialDayRepository) FindByID(ctx context.Context, id uint) (domain.TrialDay, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TrialDay{}, err
	}

	return trialDayDaoToDomain(found), nil
}

func (r *TrialDayRepository) FindAll(ctx context.Context) ([]domain.TrialDay, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]domain.TrialDay, len(found))
	for i, d := range found {
		days[i] = trialDayDaoToDomain(d)
	}

	return days, nil
}

func (r *TrialDayRepository) Update(ctx context.Context, day domain.TrialDay, stationIDs []uint) (domain.TrialDay, error) {
	updated, err := r.dao.Update(ctx, trialDayDomainToDao(day), stationIDs)
	if err != nil {
		return domain.TrialDay{}, err
	}

	return trialDayDaoToDomain(updated), nil
}

func (r *TrialDayRepository) Delete(ctx context.Context, id uint) error {
	return r.dao.Delete(ctx, id)
}

func trialDayDomainToDao(d domain.TrialDay) dao.TrialDay {
	return dao.TrialDay{
		ID:             d.ID,
		Date:           d.Date,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		AvailableSlots: d.AvailableSlots,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func trialDayDaoToDomain(d dao.TrialDay) domain.TrialDay {
	stations := make([]domain.Station, len(d.Stations))
	for i, s := range d.Stations {
		stations[i] = stationDaoToDomain(s)
	}

	return domain.TrialDay{
		ID:             d.ID,
		Date:           d.Date,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		AvailableSlots: d.AvailableSlots,
		Notes:          d.Notes,
		Stations:       stations,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
