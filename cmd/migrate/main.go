package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rebanho/rebanho-backend/internal/config"
	"github.com/rebanho/rebanho-backend/internal/migration"
	pkglogger "github.com/rebanho/rebanho-backend/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	env := config.AppEnv()
	configPath := flag.String("config", fmt.Sprintf("configs/config.%s.yaml", env), "config file path")
	dryRun := flag.Bool("dry-run", false, "list missing tables without migrating")
	seed := flag.Bool("seed", false, "insert the demo farm when the database is empty")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(env)
	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get underlying DB")
	}
	defer sqlDB.Close()

	if *dryRun {
		pending := migration.Pending(db)
		if len(pending) == 0 {
			fmt.Println("[dry-run] schema is up to date")
			return
		}
		fmt.Println("[dry-run] would create:")
		for _, table := range pending {
			fmt.Println("  -", table)
		}
		return
	}

	start := time.Now()
	if err := migration.Run(db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
	log.Info().Dur("took", time.Since(start)).Msg("schema migrated")

	if *seed {
		farmID, err := migration.Seed(db, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("seed failed")
			os.Exit(1)
		}
		if farmID == 0 {
			log.Info().Msg("database not empty, seed skipped")
		} else {
			log.Info().Uint64("farm_id", farmID).Msg("demo farm seeded")
		}
	}
}
