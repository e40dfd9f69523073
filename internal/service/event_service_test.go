package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEventService(events *mockEventRepo, animals *mockAnimalRepo, seasons *mockSeasonRepo) EventService {
	return NewEventService(events, animals, seasons, cache.NewService(nil), fixedClock("2024-06-01"))
}

func cow(id uint64) *domain.Animal {
	return &domain.Animal{ID: id, FarmID: 1, Tag: "BR-001", Sex: domain.SexFemale, Status: domain.AnimalStatusActive}
}

func TestAppendEvent_StoresCanonicalPayload(t *testing.T) {
	events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
	svc := newEventService(events, animals, seasons)
	ctx := context.Background()

	animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
	events.On("Create", ctx, mock.MatchedBy(func(e *domain.ReproEvent) bool {
		var p domain.PregnancyCheckPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return false
		}
		return e.FarmID == 1 && e.AnimalID == 10 &&
			e.Type == domain.EventPregnancyDiagnosis &&
			e.EventDate.Format("2006-01-02") == "2024-05-20" &&
			p.Status == domain.DiagnosisEmpty
	})).Return(nil)

	event, err := svc.AppendEvent(ctx, 1, 10, &domain.CreateEventRequest{
		Type:    "diagnostico_prenhez",
		Date:    "2024-05-20",
		Payload: json.RawMessage(`{"status":"vacia","method":"ultrassom"}`),
	})

	require.NoError(t, err)
	status, ok := event.DiagnosisStatus()
	assert.True(t, ok)
	assert.Equal(t, domain.DiagnosisEmpty, status)
	events.AssertExpectations(t)
}

func TestAppendEvent_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CreateEventRequest
	}{
		{"tipo desconhecido", domain.CreateEventRequest{Type: "VACINA", Date: "2024-05-01"}},
		{"data malformada", domain.CreateEventRequest{Type: "PARTO", Date: "01/05/2024"}},
		{"data futura", domain.CreateEventRequest{Type: "PARTO", Date: "2024-06-02"}},
		{"diagnóstico sem status", domain.CreateEventRequest{Type: "DIAGNOSTICO_PRENHEZ", Date: "2024-05-01", Payload: json.RawMessage(`{}`)}},
		{"status inválido", domain.CreateEventRequest{Type: "DIAGNOSTICO_PRENHEZ", Date: "2024-05-01", Payload: json.RawMessage(`{"status":"TALVEZ"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
			svc := newEventService(events, animals, seasons)

			_, err := svc.AppendEvent(context.Background(), 1, 10, &tt.req)

			assert.ErrorIs(t, err, common.ErrInvalidInput)
			events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAppendEvent_TodayIsAccepted(t *testing.T) {
	events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
	svc := newEventService(events, animals, seasons)
	ctx := context.Background()

	animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
	events.On("Create", ctx, mock.Anything).Return(nil)

	_, err := svc.AppendEvent(ctx, 1, 10, &domain.CreateEventRequest{Type: "PARTO", Date: "2024-06-01"})
	assert.NoError(t, err)
}

func TestAppendEvent_LookupFailures(t *testing.T) {
	ctx := context.Background()
	req := &domain.CreateEventRequest{Type: "IATF", Date: "2024-05-01"}

	t.Run("animal de outra fazenda", func(t *testing.T) {
		events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := newEventService(events, animals, seasons).AppendEvent(ctx, 1, 99, req)
		assert.ErrorIs(t, err, common.ErrAnimalNotFound)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("macho", func(t *testing.T) {
		events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
		bull := cow(11)
		bull.Sex = domain.SexMale
		animals.On("FindInFarm", ctx, uint64(1), uint64(11)).Return(bull, nil)

		_, err := newEventService(events, animals, seasons).AppendEvent(ctx, 1, 11, req)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("estação de outra fazenda", func(t *testing.T) {
		events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
		seasons.On("FindByID", ctx, uint64(1), uint64(5)).Return(nil, gorm.ErrRecordNotFound)

		seasonID := uint64(5)
		withSeason := *req
		withSeason.SeasonID = &seasonID
		_, err := newEventService(events, animals, seasons).AppendEvent(ctx, 1, 10, &withSeason)
		assert.ErrorIs(t, err, common.ErrSeasonNotFound)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	history := []domain.ReproEvent{{ID: 1, Type: domain.EventCalving}}

	t.Run("histórico completo", func(t *testing.T) {
		events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
		events.On("ListByAnimal", ctx, uint64(1), uint64(10)).Return(history, nil)

		got, err := newEventService(events, animals, seasons).ListEvents(ctx, 1, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, history, got)
	})

	t.Run("janela da estação", func(t *testing.T) {
		events, animals, seasons := new(mockEventRepo), new(mockAnimalRepo), new(mockSeasonRepo)
		season := &domain.BreedingSeason{ID: 5, FarmID: 1, StartDate: mustDate("2024-11-01"), EndDate: mustDate("2025-02-28")}
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
		seasons.On("FindByID", ctx, uint64(1), uint64(5)).Return(season, nil)
		events.On("ListByAnimalBetween", ctx, uint64(1), uint64(10), season.StartDate, season.EndDate).Return(history, nil)

		seasonID := uint64(5)
		got, err := newEventService(events, animals, seasons).ListEvents(ctx, 1, 10, &seasonID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		events.AssertNotCalled(t, "ListByAnimal", mock.Anything, mock.Anything, mock.Anything)
	})
}
