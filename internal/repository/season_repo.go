package repository

import (
	"context"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeasonRepository breeding season data access
type SeasonRepository interface {
	Create(ctx context.Context, season *domain.BreedingSeason) error
	FindByID(ctx context.Context, farmID, id uint64) (*domain.BreedingSeason, error)
	List(ctx context.Context, farmID uint64) ([]domain.BreedingSeason, error)
	Latest(ctx context.Context, farmID uint64) (*domain.BreedingSeason, error)
}

type seasonRepository struct {
	db *gorm.DB
}

// NewSeasonRepository creates a new SeasonRepository
func NewSeasonRepository(db *gorm.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *domain.BreedingSeason) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) FindByID(ctx context.Context, farmID, id uint64) (*domain.BreedingSeason, error) {
	var season domain.BreedingSeason
	err := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", id, farmID).
		First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) List(ctx context.Context, farmID uint64) ([]domain.BreedingSeason, error) {
	var seasons []domain.BreedingSeason
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("start_date DESC, id DESC").
		Find(&seasons).Error
	return seasons, err
}

// Latest returns the season with the most recent start date
func (r *seasonRepository) Latest(ctx context.Context, farmID uint64) (*domain.BreedingSeason, error) {
	var season domain.BreedingSeason
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("start_date DESC, id DESC").
		First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// ExposureRepository animals exposed to breeding in a season
type ExposureRepository interface {
	AddMany(ctx context.Context, farmID, seasonID uint64, animalIDs []uint64) (int64, error)
	Remove(ctx context.Context, farmID, seasonID, animalID uint64) (bool, error)
	ListAnimalIDs(ctx context.Context, farmID, seasonID uint64) ([]uint64, error)
}

type exposureRepository struct {
	db *gorm.DB
}

// NewExposureRepository creates a new ExposureRepository
func NewExposureRepository(db *gorm.DB) ExposureRepository {
	return &exposureRepository{db: db}
}

// AddMany inserts the exposures, skipping animals already in the season.
// Returns the number of rows actually inserted.
func (r *exposureRepository) AddMany(ctx context.Context, farmID, seasonID uint64, animalIDs []uint64) (int64, error) {
	if len(animalIDs) == 0 {
		return 0, nil
	}
	rows := make([]domain.SeasonExposure, 0, len(animalIDs))
	for _, id := range animalIDs {
		rows = append(rows, domain.SeasonExposure{FarmID: farmID, SeasonID: seasonID, AnimalID: id})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

func (r *exposureRepository) Remove(ctx context.Context, farmID, seasonID, animalID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("farm_id = ? AND season_id = ? AND animal_id = ?", farmID, seasonID, animalID).
		Delete(&domain.SeasonExposure{})
	return result.RowsAffected > 0, result.Error
}

func (r *exposureRepository) ListAnimalIDs(ctx context.Context, farmID, seasonID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.SeasonExposure{}).
		Where("farm_id = ? AND season_id = ?", farmID, seasonID).
		Order("animal_id ASC").
		Pluck("animal_id", &ids).Error
	return ids, err
}
