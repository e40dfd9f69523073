package service

import (
	"context"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock FarmRepository ---

type mockFarmRepo struct {
	mock.Mock
}

func (m *mockFarmRepo) FindByID(ctx context.Context, id uint64) (*domain.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *mockFarmRepo) UpdateReproSettings(ctx context.Context, farm *domain.Farm) error {
	return m.Called(ctx, farm).Error(0)
}

// --- Mock AnimalRepository ---

type mockAnimalRepo struct {
	mock.Mock
}

func (m *mockAnimalRepo) FindInFarm(ctx context.Context, farmID, animalID uint64) (*domain.Animal, error) {
	args := m.Called(ctx, farmID, animalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Animal), args.Error(1)
}

func (m *mockAnimalRepo) ListActiveFemales(ctx context.Context, farmID uint64, query string) ([]domain.Animal, error) {
	args := m.Called(ctx, farmID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Animal), args.Error(1)
}

func (m *mockAnimalRepo) ListActiveFemalesByIDs(ctx context.Context, farmID uint64, ids []uint64) ([]domain.Animal, error) {
	args := m.Called(ctx, farmID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Animal), args.Error(1)
}

// --- Mock ReproEventRepository ---

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, event *domain.ReproEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventRepo) ListByAnimal(ctx context.Context, farmID, animalID uint64) ([]domain.ReproEvent, error) {
	args := m.Called(ctx, farmID, animalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReproEvent), args.Error(1)
}

func (m *mockEventRepo) ListByAnimalBetween(ctx context.Context, farmID, animalID uint64, from, to time.Time) ([]domain.ReproEvent, error) {
	args := m.Called(ctx, farmID, animalID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReproEvent), args.Error(1)
}

func (m *mockEventRepo) ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64][]domain.ReproEvent, error) {
	args := m.Called(ctx, farmID, animalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64][]domain.ReproEvent), args.Error(1)
}

// --- Mock SeasonRepository ---

type mockSeasonRepo struct {
	mock.Mock
}

func (m *mockSeasonRepo) Create(ctx context.Context, season *domain.BreedingSeason) error {
	return m.Called(ctx, season).Error(0)
}

func (m *mockSeasonRepo) FindByID(ctx context.Context, farmID, id uint64) (*domain.BreedingSeason, error) {
	args := m.Called(ctx, farmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BreedingSeason), args.Error(1)
}

func (m *mockSeasonRepo) List(ctx context.Context, farmID uint64) ([]domain.BreedingSeason, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreedingSeason), args.Error(1)
}

func (m *mockSeasonRepo) Latest(ctx context.Context, farmID uint64) (*domain.BreedingSeason, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BreedingSeason), args.Error(1)
}

// --- Mock ExposureRepository ---

type mockExposureRepo struct {
	mock.Mock
}

func (m *mockExposureRepo) AddMany(ctx context.Context, farmID, seasonID uint64, animalIDs []uint64) (int64, error) {
	args := m.Called(ctx, farmID, seasonID, animalIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExposureRepo) Remove(ctx context.Context, farmID, seasonID, animalID uint64) (bool, error) {
	args := m.Called(ctx, farmID, seasonID, animalID)
	return args.Bool(0), args.Error(1)
}

func (m *mockExposureRepo) ListAnimalIDs(ctx context.Context, farmID, seasonID uint64) ([]uint64, error) {
	args := m.Called(ctx, farmID, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

// --- Mock SelectionRepository ---

type mockSelectionRepo struct {
	mock.Mock
}

func (m *mockSelectionRepo) Upsert(ctx context.Context, decision *domain.SelectionDecision) error {
	return m.Called(ctx, decision).Error(0)
}

func (m *mockSelectionRepo) Delete(ctx context.Context, farmID, animalID uint64) (bool, error) {
	args := m.Called(ctx, farmID, animalID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSelectionRepo) Find(ctx context.Context, farmID, animalID uint64) (*domain.SelectionDecision, error) {
	args := m.Called(ctx, farmID, animalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SelectionDecision), args.Error(1)
}

func (m *mockSelectionRepo) ListByAnimals(ctx context.Context, farmID uint64, animalIDs []uint64) (map[uint64]*domain.SelectionDecision, error) {
	args := m.Called(ctx, farmID, animalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]*domain.SelectionDecision), args.Error(1)
}

func (m *mockSelectionRepo) Recent(ctx context.Context, farmID uint64, limit int) ([]domain.SelectionDecision, error) {
	args := m.Called(ctx, farmID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SelectionDecision), args.Error(1)
}

// fixedClock pins "today" for KPI and future-date checks
func fixedClock(date string) Clock {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func mustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
