package repository

import (
	"context"
	"strings"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/gorm"
)

// FarmRepository reads farms and writes their reproduction settings
type FarmRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Farm, error)
	UpdateReproSettings(ctx context.Context, farm *domain.Farm) error
}

type farmRepository struct {
	db *gorm.DB
}

// NewFarmRepository creates a new FarmRepository
func NewFarmRepository(db *gorm.DB) FarmRepository {
	return &farmRepository{db: db}
}

func (r *farmRepository) FindByID(ctx context.Context, id uint64) (*domain.Farm, error) {
	var farm domain.Farm
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&farm).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// UpdateReproSettings writes only the settings columns; nil thresholds are stored as NULL
func (r *farmRepository) UpdateReproSettings(ctx context.Context, farm *domain.Farm) error {
	return r.db.WithContext(ctx).Model(&domain.Farm{}).
		Where("id = ?", farm.ID).
		Updates(map[string]interface{}{
			"breeding_mode":      farm.BreedingMode,
			"warning_open_days":  farm.WarningOpenDays,
			"critical_open_days": farm.CriticalOpenDays,
		}).Error
}

// AnimalRepository reads the herd. Only active females take part in reproduction KPIs.
type AnimalRepository interface {
	FindInFarm(ctx context.Context, farmID, animalID uint64) (*domain.Animal, error)
	ListActiveFemales(ctx context.Context, farmID uint64, query string) ([]domain.Animal, error)
	ListActiveFemalesByIDs(ctx context.Context, farmID uint64, ids []uint64) ([]domain.Animal, error)
}

type animalRepository struct {
	db *gorm.DB
}

// NewAnimalRepository creates a new AnimalRepository
func NewAnimalRepository(db *gorm.DB) AnimalRepository {
	return &animalRepository{db: db}
}

func (r *animalRepository) FindInFarm(ctx context.Context, farmID, animalID uint64) (*domain.Animal, error) {
	var animal domain.Animal
	err := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", animalID, farmID).
		First(&animal).Error
	if err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *animalRepository) activeFemales(ctx context.Context, farmID uint64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Animal{}).
		Where("farm_id = ? AND sex = ? AND status = ?", farmID, domain.SexFemale, domain.AnimalStatusActive)
}

func (r *animalRepository) ListActiveFemales(ctx context.Context, farmID uint64, query string) ([]domain.Animal, error) {
	q := r.activeFemales(ctx, farmID)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(tag) LIKE ? OR LOWER(registry) LIKE ? OR LOWER(name) LIKE ?)", like, like, like)
	}
	var animals []domain.Animal
	err := q.Order("tag ASC").Find(&animals).Error
	return animals, err
}

func (r *animalRepository) ListActiveFemalesByIDs(ctx context.Context, farmID uint64, ids []uint64) ([]domain.Animal, error) {
	if len(ids) == 0 {
		return []domain.Animal{}, nil
	}
	var animals []domain.Animal
	err := r.activeFemales(ctx, farmID).
		Where("id IN ?", ids).
		Order("tag ASC").
		Find(&animals).Error
	return animals, err
}
