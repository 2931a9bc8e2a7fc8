package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrStationNotFound = errors.New("station not found")

type Station struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Capacity    int    `gorm:"not null;default:1"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StationDAO struct {
	db *gorm.DB
}

func NewStationDAO(db *gorm.DB) *StationDAO {
	return &StationDAO{
		db: db,
	}
}

func (d *StationDAO) Insert(ctx context.Context, station Station) (Station, error) {
	result := d.db.WithContext(ctx).Create(&station)
	if result.Error != nil {
		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) FindByID(ctx context.Context, id uint) (Station, error) {
	var station Station

	result := d.db.WithContext(ctx).First(&station, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Station{}, ErrStationNotFound
		}

		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) FindAll(ctx context.Context) ([]Station, error) {
	var stations []Station

	result := d.db.WithContext(ctx).Order("name").Find(&stations)
	if result.Error != nil {
		return nil, result.Error
	}

	return stations, nil
}

func (d *StationDAO) Update(ctx context.Context, station Station) (Station, error) {
	result := d.db.WithContext(ctx).Save(&station)
	if result.Error != nil {
		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Station{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}
