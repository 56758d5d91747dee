package service

import (
	"context"
	"time"

	"oficialia/internal/dto"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"gorm.io/datatypes"
)

type ConfiguracionService interface {
	Obtener(ctx context.Context) (*model.ConfiguracionEnvio, bool, error)
	Guardar(ctx context.Context, req dto.ConfiguracionEnvioRequest) (*model.ConfiguracionEnvio, error)
}

type configuracionService struct {
	repo  repository.ConfiguracionRepository
	ahora func() time.Time
}

func NewConfiguracionService(repo repository.ConfiguracionRepository) ConfiguracionService {
	return &configuracionService{repo: repo, ahora: time.Now}
}

// Obtener devuelve la configuración junto con el estado actual de la ventana
// de envío, ya evaluado contra el calendario.
func (s *configuracionService) Obtener(ctx context.Context) (*model.ConfiguracionEnvio, bool, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	return cfg, VentanaAbierta(s.ahora(), cfg.DiasFestivos), nil
}

func (s *configuracionService) Guardar(ctx context.Context, req dto.ConfiguracionEnvioRequest) (*model.ConfiguracionEnvio, error) {
	excepciones := make([]model.ExcepcionUsuario, 0, len(req.ExcepcionesUsuarios))
	for _, e := range req.ExcepcionesUsuarios {
		excepciones = append(excepciones, model.ExcepcionUsuario{UID: e.UID, Expira: e.Expira})
	}
	cfg := &model.ConfiguracionEnvio{
		DiasFestivos:        datatypes.NewJSONSlice(req.DiasFestivos),
		ExcepcionGlobal:     req.ExcepcionGlobal,
		ExcepcionesUsuarios: datatypes.NewJSONSlice(excepciones),
	}
	if err := s.repo.Guardar(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
