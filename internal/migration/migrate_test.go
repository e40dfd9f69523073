package migration

import (
	"testing"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func TestRun_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	assert.Len(t, Pending(db), len(Models()))

	require.NoError(t, Run(db))
	assert.Empty(t, Pending(db))

	// idempotent
	require.NoError(t, Run(db))
}

func TestSeed_DemoHerdCoversEveryLight(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	farmID, err := Seed(db, today)
	require.NoError(t, err)
	require.NotZero(t, farmID)

	var animals []domain.Animal
	require.NoError(t, db.Where("farm_id = ? AND sex = ?", farmID, domain.SexFemale).Order("tag").Find(&animals).Error)
	require.Len(t, animals, 3)

	lights := map[string]repro.TrafficLight{}
	for i := range animals {
		var events []domain.ReproEvent
		require.NoError(t, db.Where("animal_id = ?", animals[i].ID).Find(&events).Error)
		row := repro.Evaluate(&animals[i], events, nil, today, nil, repro.DefaultThresholds())
		lights[animals[i].Tag] = row.TrafficLight
	}
	assert.Equal(t, repro.Red, lights["BR-101"])
	assert.Equal(t, repro.Yellow, lights["BR-102"])
	assert.Equal(t, repro.Green, lights["PO-201"])

	// second run is a no-op
	again, err := Seed(db, today)
	require.NoError(t, err)
	assert.Zero(t, again)
}
