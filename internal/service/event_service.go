package service

import (
	"context"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/rebanho/rebanho-backend/pkg/logger"
	"gorm.io/datatypes"
)

// EventService appends to and reads the reproductive event log
type EventService interface {
	AppendEvent(ctx context.Context, farmID, animalID uint64, req *domain.CreateEventRequest) (*domain.ReproEvent, error)
	ListEvents(ctx context.Context, farmID, animalID uint64, seasonID *uint64) ([]domain.ReproEvent, error)
}

type eventService struct {
	events  repository.ReproEventRepository
	animals repository.AnimalRepository
	seasons repository.SeasonRepository
	cache   cache.Service
	clock   Clock
}

// NewEventService creates a new EventService
func NewEventService(
	events repository.ReproEventRepository,
	animals repository.AnimalRepository,
	seasons repository.SeasonRepository,
	cacheSvc cache.Service,
	clock Clock,
) EventService {
	return &eventService{events: events, animals: animals, seasons: seasons, cache: cacheSvc, clock: clock}
}

// AppendEvent validates the request, stores the canonical payload and
// invalidates the farm's cached summaries.
func (s *eventService) AppendEvent(ctx context.Context, farmID, animalID uint64, req *domain.CreateEventRequest) (*domain.ReproEvent, error) {
	eventType, err := domain.ParseEventType(req.Type)
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date.After(domain.DateOf(s.clock.now())) {
		return nil, common.NewValidationError("date", "data não pode estar no futuro")
	}
	payload, err := domain.DecodePayload(eventType, req.Payload)
	if err != nil {
		return nil, err
	}
	encoded, err := domain.EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	animal, err := findAnimal(ctx, s.animals, farmID, animalID)
	if err != nil {
		return nil, err
	}
	if !animal.IsFemale() {
		return nil, common.NewValidationError("animalId", "eventos reprodutivos só podem ser lançados em fêmeas")
	}
	if req.SeasonID != nil {
		if _, err := findSeason(ctx, s.seasons, farmID, *req.SeasonID); err != nil {
			return nil, err
		}
	}

	event := &domain.ReproEvent{
		FarmID:    farmID,
		AnimalID:  animalID,
		SeasonID:  req.SeasonID,
		Type:      eventType,
		EventDate: date,
		Payload:   datatypes.JSON(encoded),
		Notes:     req.Notes,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	reproEventsAppended.WithLabelValues(string(eventType)).Inc()
	l := logger.WithFarmID(farmID)
	l.Info().
		Uint64("animal_id", animalID).
		Uint64("event_id", event.ID).
		Str("type", string(eventType)).
		Msg("repro event appended")

	invalidate(ctx, s.cache, farmID)
	return event, nil
}

// ListEvents returns the animal's history ordered by date then insertion.
// With a season the list is limited to the season window.
func (s *eventService) ListEvents(ctx context.Context, farmID, animalID uint64, seasonID *uint64) ([]domain.ReproEvent, error) {
	if _, err := findAnimal(ctx, s.animals, farmID, animalID); err != nil {
		return nil, err
	}
	if seasonID == nil {
		return s.events.ListByAnimal(ctx, farmID, animalID)
	}
	season, err := findSeason(ctx, s.seasons, farmID, *seasonID)
	if err != nil {
		return nil, err
	}
	return s.events.ListByAnimalBetween(ctx, farmID, animalID, domain.DateOf(season.StartDate), domain.DateOf(season.EndDate))
}
