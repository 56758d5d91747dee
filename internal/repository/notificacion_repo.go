package repository

import (
	"context"

	"oficialia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	Crear(ctx context.Context, n *model.Notificacion) error
	// ListPara returns the inbox for a user: notifications addressed to their
	// uid plus broadcasts addressed to their role.
	ListPara(ctx context.Context, uid string, rol model.Rol, limit int) ([]model.Notificacion, error)
	MarcarLeida(ctx context.Context, id uuid.UUID, uid string) error
	MarcarTodasLeidas(ctx context.Context, uid string, rol model.Rol) error
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Crear(ctx context.Context, n *model.Notificacion) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) ListPara(ctx context.Context, uid string, rol model.Rol, limit int) ([]model.Notificacion, error) {
	var ns []model.Notificacion
	err := r.db.WithContext(ctx).
		Where("target_uid = ? OR target_rol = ?", uid, rol).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}

func (r *notificacionRepo) MarcarLeida(ctx context.Context, id uuid.UUID, uid string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notificacion{}).
		Where("id = ? AND (target_uid = ? OR target_uid IS NULL)", id, uid).
		Update("leida", true).Error
}

func (r *notificacionRepo) MarcarTodasLeidas(ctx context.Context, uid string, rol model.Rol) error {
	return r.db.WithContext(ctx).
		Model(&model.Notificacion{}).
		Where("target_uid = ? OR target_rol = ?", uid, rol).
		Update("leida", true).Error
}
