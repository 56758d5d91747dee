package repository

import (
	"context"
	"errors"

	"oficialia/internal/model"

	"gorm.io/gorm"
)

type ConfiguracionRepository interface {
	// Get returns the singleton submission-window configuration, creating an
	// empty row the first time it is asked for.
	Get(ctx context.Context) (*model.ConfiguracionEnvio, error)
	Guardar(ctx context.Context, c *model.ConfiguracionEnvio) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Get(ctx context.Context) (*model.ConfiguracionEnvio, error) {
	var c model.ConfiguracionEnvio
	err := r.db.WithContext(ctx).First(&c, "id = ?", model.ConfiguracionEnvioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = model.ConfiguracionEnvio{ID: model.ConfiguracionEnvioID}
		if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracionRepo) Guardar(ctx context.Context, c *model.ConfiguracionEnvio) error {
	c.ID = model.ConfiguracionEnvioID
	return r.db.WithContext(ctx).Save(c).Error
}
