package migration

import (
	"fmt"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned or read by the service, in creation order
func Models() []interface{} {
	return []interface{}{
		&domain.Farm{},
		&domain.Animal{},
		&domain.BreedingSeason{},
		&domain.SeasonExposure{},
		&domain.ReproEvent{},
		&domain.SelectionDecision{},
	}
}

// Run executes AutoMigrate for all tables. Existing tables only gain
// missing columns and indexes.
func Run(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("automigrate %T: %w", model, err)
		}
	}
	return nil
}

// Pending returns the tables that do not exist yet
func Pending(db *gorm.DB) []string {
	var missing []string
	for _, model := range Models() {
		if !db.Migrator().HasTable(model) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err == nil {
				missing = append(missing, stmt.Schema.Table)
			} else {
				missing = append(missing, fmt.Sprintf("%T", model))
			}
		}
	}
	return missing
}
