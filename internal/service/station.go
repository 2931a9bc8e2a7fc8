package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
)

var ErrStationNotFound = repository.ErrStationNotFound

const stationsTable = "stations"

type StationRepository interface {
	Create(ctx context.Context, station domain.Station) (domain.Station, error)
	FindByID(ctx context.Context, id uint) (domain.Station, error)
	FindAll(ctx context.Context) ([]domain.Station, error)
	Update(ctx context.Context, station domain.Station) (domain.Station, error)
	Delete(ctx context.Context, id uint) error
}

type StationService struct {
	repo  StationRepository
	audit AuditRecorder
}

func NewStationService(repo StationRepository, audit AuditRecorder) *StationService {
	return &StationService{
		repo:  repo,
		audit: audit,
	}
}

func (s *StationService) CreateStation(ctx context.Context, station domain.Station, actorID uint) (domain.Station, error) {
	if err := validateStation(station); err != nil {
		return domain.Station{}, err
	}

	created, err := s.repo.Create(ctx, station)
	if err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditCreated, stationsTable, recordID(created.ID), map[string]any{
		"name":     created.Name,
		"capacity": created.Capacity,
	})

	return created, nil
}

func (s *StationService) GetStation(ctx context.Context, id uint) (domain.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, err
	}

	return station, nil
}

func (s *StationService) ListStations(ctx context.Context) ([]domain.Station, error) {
	stations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return stations, nil
}

func (s *StationService) UpdateStation(ctx context.Context, station domain.Station, actorID uint) (domain.Station, error) {
	if err := validateStation(station); err != nil {
		return domain.Station{}, err
	}

	existing, err := s.repo.FindByID(ctx, station.ID)
	if err != nil {
		return domain.Station{}, err
	}

	existing.Name = station.Name
	existing.Capacity = station.Capacity
	existing.Description = station.Description

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdated, stationsTable, recordID(updated.ID), map[string]any{
		"name":     updated.Name,
		"capacity": updated.Capacity,
	})

	return updated, nil
}

func (s *StationService) DeleteStation(ctx context.Context, id uint, actorID uint) error {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDeleted, stationsTable, recordID(id), map[string]any{
		"name": station.Name,
	})

	return nil
}

func validateStation(station domain.Station) error {
	return validation.Errors{
		"name":     validation.Validate(station.Name, validation.Required),
		"capacity": validation.Validate(station.Capacity, validation.Required, validation.Min(1)),
	}.Filter()
}
