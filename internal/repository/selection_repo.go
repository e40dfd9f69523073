package repository

import (
	"context"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionRepository curator decisions, one row per (farm, animal)
type SelectionRepository interface {
	Upsert(ctx context.Context, decision *domain.SelectionDecision) error
	Delete(ctx context.Context, farmID, animalID uint64) (bool, error)
	Find(ctx context.Context, farmID, animalID uint64) (*domain.SelectionDecision, error)
	ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64]*domain.SelectionDecision, error)
	Recent(ctx context.Context, farmID uint64, limit int) ([]domain.SelectionDecision, error)
}

type selectionRepository struct {
	db *gorm.DB
}

// NewSelectionRepository creates a new SelectionRepository
func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

// Upsert creates the decision or replaces decision and reason of the existing one.
// CreatedAt is kept from the first write.
func (r *selectionRepository) Upsert(ctx context.Context, decision *domain.SelectionDecision) error {
	now := time.Now().UTC()
	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = now
	}
	decision.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "farm_id"}, {Name: "animal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"decision", "reason", "updated_at"}),
	}).Create(decision).Error
	if err != nil {
		return err
	}

	// reload so ID and CreatedAt reflect the stored row on the update path
	stored, err := r.Find(ctx, decision.FarmID, decision.AnimalID)
	if err != nil {
		return err
	}
	*decision = *stored
	return nil
}

func (r *selectionRepository) Delete(ctx context.Context, farmID, animalID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		Delete(&domain.SelectionDecision{})
	return result.RowsAffected > 0, result.Error
}

func (r *selectionRepository) Find(ctx context.Context, farmID, animalID uint64) (*domain.SelectionDecision, error) {
	var d domain.SelectionDecision
	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *selectionRepository) ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64]*domain.SelectionDecision, error) {
	byAnimal := make(map[uint64]*domain.SelectionDecision, len(animalIDs))
	if len(animalIDs) == 0 {
		return byAnimal, nil
	}

	var decisions []domain.SelectionDecision
	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND animal_id IN ?", farmID, animalIDs).
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	for i := range decisions {
		byAnimal[decisions[i].AnimalID] = &decisions[i]
	}
	return byAnimal, nil
}

// Recent returns the most recently updated decisions of the farm
func (r *selectionRepository) Recent(ctx context.Context, farmID uint64, limit int) ([]domain.SelectionDecision, error) {
	var decisions []domain.SelectionDecision
	q := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("updated_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&decisions).Error
	return decisions, err
}
