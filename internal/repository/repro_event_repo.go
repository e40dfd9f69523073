package repository

import (
	"context"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/gorm"
)

// ReproEventRepository append-only access to the reproductive event log.
// Rows are never updated or deleted.
type ReproEventRepository interface {
	Create(ctx context.Context, event *domain.ReproEvent) error
	ListByAnimal(ctx context.Context, farmID, animalID uint64) ([]domain.ReproEvent, error)
	ListByAnimalBetween(ctx context.Context, farmID, animalID uint64, from, to time.Time) ([]domain.ReproEvent, error)
	ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64][]domain.ReproEvent, error)
}

type reproEventRepository struct {
	db *gorm.DB
}

// NewReproEventRepository creates a new ReproEventRepository
func NewReproEventRepository(db *gorm.DB) ReproEventRepository {
	return &reproEventRepository{db: db}
}

func (r *reproEventRepository) Create(ctx context.Context, event *domain.ReproEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *reproEventRepository) ListByAnimal(ctx context.Context, farmID, animalID uint64) ([]domain.ReproEvent, error) {
	var events []domain.ReproEvent
	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		Order("event_date ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *reproEventRepository) ListByAnimalBetween(ctx context.Context, farmID, animalID uint64, from, to time.Time) ([]domain.ReproEvent, error) {
	var events []domain.ReproEvent
	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		Where("event_date >= ? AND event_date <= ?", from, to).
		Order("event_date ASC, id ASC").
		Find(&events).Error
	return events, err
}

// ListByAnimals loads the full history of many animals in one query, grouped by animal
func (r *reproEventRepository) ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64][]domain.ReproEvent, error) {
	grouped := make(map[uint64][]domain.ReproEvent, len(animalIDs))
	if len(animalIDs) == 0 {
		return grouped, nil
	}

	var events []domain.ReproEvent
	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id IN ?", farmID, animalIDs).
		Order("animal_id ASC, event_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		grouped[e.AnimalID] = append(grouped[e.AnimalID], e)
	}
	return grouped, nil
}
