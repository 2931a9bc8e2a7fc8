package repository

import (
	"context"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository/dao"
)

var ErrStationNotFound = dao.ErrStationNotFound

type StationDAO interface {
	Insert(ctx context.Context, station dao.Station) (dao.Station, error)
	FindByID(ctx context.Context, id uint) (dao.Station, error)
	FindAll(ctx context.Context) ([]dao.Station, error)
	Update(ctx context.Context, station dao.Station) (dao.Station, error)
	Delete(ctx context.Context, id uint) error
}

type StationRepository struct {
	dao StationDAO
}

func NewStationRepository(dao StationDAO) *StationRepository {
	return &StationRepository{
		dao: dao,
	}
}

func (r *StationRepository) Create(ctx context.Context, station domain.Station) (domain.Station, error) {
	created, err := r.dao.Insert(ctx, stationDomainToDao(station))
	if err != nil {
		return domain.Station{}, err
	}

	return stationDaoToDomain(created), nil
}

func (r *StationRepository) FindByID(ctx context.Context, id uint) (domain.Station, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, err
	}

	return stationDaoToDomain(found), nil
}

func (r *StationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stations := make([]domain.Station, len(found))
	for i, s := range found {
		stations[i] = stationDaoToDomain(s)
	}

	return stations, nil
}

func (r *StationRepository) Update(ctx context.Context, station domain.Station) (domain.Station, error) {
	updated, err := r.dao.Update(ctx, stationDomainToDao(station))
	if err != nil {
		return domain.Station{}, err
	}

	return stationDaoToDomain(updated), nil
}

func (r *StationRepository) Delete(ctx context.Context, id uint) error {
	return r.dao.Delete(ctx, id)
}

func stationDomainToDao(s domain.Station) dao.Station {
	return dao.Station{
		ID:          s.ID,
		Name:        s.Name,
		Capacity:    s.Capacity,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func stationDaoToDomain(s dao.Station) domain.Station {
	return domain.Station{
		ID:          s.ID,
		Name:        s.Name,
		Capacity:    s.Capacity,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
