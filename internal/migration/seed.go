package migration

import (
	"fmt"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed inserts a demo farm with a small herd and event history, only when
// the farms table is empty. Returns the id of the demo farm (0 if skipped).
func Seed(db *gorm.DB, today time.Time) (uint64, error) {
	var count int64
	if err := db.Model(&domain.Farm{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var farmID uint64
	err := db.Transaction(func(tx *gorm.DB) error {
		farm := &domain.Farm{Name: "Fazenda Santa Luzia", BreedingMode: domain.BreedingModeContinuous}
		if err := tx.Create(farm).Error; err != nil {
			return err
		}
		farmID = farm.ID

		today = domain.DateOf(today)
		daysAgo := func(n int) time.Time { return today.AddDate(0, 0, -n) }

		herd := []struct {
			tag    string
			name   string
			kind   domain.HerdType
			events []seedEvent
		}{
			// repeat empty: RED
			{"BR-101", "Mimosa", domain.HerdTypeCommercial, []seedEvent{
				{domain.EventCalving, daysAgo(500), `{"calfSex":"F"}`},
				{domain.EventPregnancyDiagnosis, daysAgo(120), `{"status":"VAZIA","method":"ultrassom"}`},
				{domain.EventPregnancyDiagnosis, daysAgo(40), `{"status":"VAZIA","method":"ultrassom"}`},
			}},
			// 150 open days: YELLOW
			{"BR-102", "Estrela", domain.HerdTypeCommercial, []seedEvent{
				{domain.EventCalving, daysAgo(515), `{"calfSex":"M"}`},
				{domain.EventCalving, daysAgo(150), `{"calfSex":"F"}`},
			}},
			// pregnant after 90 days: GREEN
			{"PO-201", "Jandaia", domain.HerdTypePedigree, []seedEvent{
				{domain.EventCalving, daysAgo(200), `{"calfSex":"M"}`},
				{domain.EventTimedAI, daysAgo(120), `{"bullName":"Nelore Top","protocol":"P36"}`},
				{domain.EventPregnancyDiagnosis, daysAgo(110), `{"status":"PRENHE","gestationDays":30}`},
			}},
		}

		for _, h := range herd {
			animal := &domain.Animal{
				FarmID:   farm.ID,
				Tag:      h.tag,
				Name:     h.name,
				Sex:      domain.SexFemale,
				HerdType: h.kind,
				Breed:    "Nelore",
				Status:   domain.AnimalStatusActive,
			}
			if err := tx.Create(animal).Error; err != nil {
				return fmt.Errorf("seed animal %s: %w", h.tag, err)
			}
			for _, e := range h.events {
				event := &domain.ReproEvent{
					FarmID:    farm.ID,
					AnimalID:  animal.ID,
					Type:      e.kind,
					EventDate: e.date,
					Payload:   datatypes.JSON(e.payload),
				}
				if err := tx.Create(event).Error; err != nil {
					return fmt.Errorf("seed event for %s: %w", h.tag, err)
				}
			}
		}

		bull := &domain.Animal{FarmID: farm.ID, Tag: "TR-001", Name: "Imperador", Sex: domain.SexMale,
			HerdType: domain.HerdTypePedigree, Breed: "Nelore", Status: domain.AnimalStatusActive}
		return tx.Create(bull).Error
	})
	return farmID, err
}

type seedEvent struct {
	kind    domain.EventType
	date    time.Time
	payload string
}
