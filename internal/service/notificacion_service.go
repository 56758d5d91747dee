package service

import (
	"context"

	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
)

const inboxLimit = 100

type NotificacionService interface {
	Inbox(ctx context.Context, actor Actor) ([]model.Notificacion, error)
	MarcarLeida(ctx context.Context, actor Actor, id uuid.UUID) error
	MarcarTodasLeidas(ctx context.Context, actor Actor) error
}

type notificacionService struct {
	repo repository.NotificacionRepository
}

func NewNotificacionService(repo repository.NotificacionRepository) NotificacionService {
	return &notificacionService{repo: repo}
}

func (s *notificacionService) Inbox(ctx context.Context, actor Actor) ([]model.Notificacion, error) {
	return s.repo.ListPara(ctx, actor.UID, actor.Rol, inboxLimit)
}

func (s *notificacionService) MarcarLeida(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repo.MarcarLeida(ctx, id, actor.UID)
}

func (s *notificacionService) MarcarTodasLeidas(ctx context.Context, actor Actor) error {
	return s.repo.MarcarTodasLeidas(ctx, actor.UID, actor.Rol)
}
