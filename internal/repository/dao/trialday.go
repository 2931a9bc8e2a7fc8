package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrTrialDayNotFound = errors.New("trial day not found")

type TrialDay struct {
	ID             uint      `gorm:"primaryKey"`
	Date           time.Time `gorm:"not null;index"`
	StartTime      *string
	EndTime        *string
	AvailableSlots int `gorm:"not null;default:0"`
	Notes          *string
	Stations       []Station `gorm:"many2many:trial_day_stations;"`
	// Participants belong to exactly one trial day; deleting the day
	// removes them at the store layer.
	Participants []Participant `gorm:"foreignKey:TrialDayID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TrialDayDAO struct {
	db *gorm.DB
}

func NewTrialDayDAO(db *gorm.DB) *TrialDayDAO {
	return &TrialDayDAO{
		db: db,
	}
}

func (d *TrialDayDAO) Insert(ctx context.Context, day TrialDay, stationIDs []uint) (TrialDay, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&day).Error; err != nil {
			return err
		}

		return d.replaceStations(tx, &day, stationIDs)
	})
	if err != nil {
		return TrialDay{}, err
	}

	return d.FindByID(ctx, day.ID)
}

func (d *TrialDayDAO) FindByID(ctx context.Context, id uint) (TrialDay, error) {
	var day TrialDay

	result := d.db.WithContext(ctx).Preload("Stations").First(&day, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TrialDay{}, ErrTrialDayNotFound
		}

		return TrialDay{}, result.Error
	}

	return day, nil
}

func (d *TrialDayDAO) FindAll(ctx context.Context) ([]TrialDay, error) {
	var days []TrialDay

	result := d.db.WithContext(ctx).Preload("Stations").Order("date DESC").Find(&days)
	if result.Error != nil {
		return nil, result.Error
	}

	return days, nil
}

func (d *TrialDayDAO) Update(ctx context.Context, day TrialDay, stationIDs []uint) (TrialDay, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&day).Error; err != nil {
			return err
		}

		return d.replaceStations(tx, &day, stationIDs)
	})
	if err != nil {
		return TrialDay{}, err
	}

	return d.FindByID(ctx, day.ID)
}

// Delete removes the day, its station associations and, through the cascading
// foreign key, every participant registered on it.
func (d *TrialDayDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		day := TrialDay{ID: id}
		if err := tx.Model(&day).Association("Stations").Clear(); err != nil {
			return err
		}
		if err := tx.Where("trial_day_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&TrialDay{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTrialDayNotFound
		}

		return nil
	})
}

func (d *TrialDayDAO) replaceStations(tx *gorm.DB, day *TrialDay, stationIDs []uint) error {
	stations := make([]Station, len(stationIDs))
	for i, stationID := range stationIDs {
		stations[i] = Station{ID: stationID}
	}

	return tx.Model(day).Association("Stations").Replace(stations)
}
