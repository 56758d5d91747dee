package infra

import (
	"fmt"
	"time"

	"oficialia/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase abre la conexión a postgres y migra el esquema.
func NewDatabase(dsn string, env string) (*gorm.DB, error) {
	nivel := gormlogger.Warn
	if env == "development" {
		nivel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(nivel),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Requisicion{},
		&model.FolioCounter{},
		&model.Notificacion{},
		&model.ConfiguracionEnvio{},
	); err != nil {
		return nil, fmt.Errorf("migrar esquema: %w", err)
	}

	log.Info().Msg("conexión a postgres lista")
	return db, nil
}
