package worker

import (
	"context"
	"errors"
	"fmt"

	"oficialia/internal/infra"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewNotificacionHandler persiste la notificación en el inbox y, con el
// mailer habilitado, avisa por correo a los destinatarios.
func NewNotificacionHandler(
	notifRepo repository.NotificacionRepository,
	usuarioRepo repository.UsuarioRepository,
	mailer *infra.Mailer,
) func(ctx context.Context, job JobNotificacion) error {
	return func(ctx context.Context, job JobNotificacion) error {
		n := job.Notificacion
		if err := notifRepo.Crear(ctx, &n); err != nil {
			return fmt.Errorf("persistir notificación: %w", err)
		}
		if !mailer.Habilitado() {
			return nil
		}

		asunto := fmt.Sprintf("Requisición %s", n.Folio)
		for _, destino := range destinatarios(ctx, usuarioRepo, &n) {
			if err := mailer.Enviar(destino, asunto, n.Mensaje); err != nil {
				// El inbox ya quedó escrito; el correo es mejor esfuerzo.
				log.Warn().Err(err).Str("para", destino).Msg("correo de notificación falló")
			}
		}
		return nil
	}
}

func destinatarios(ctx context.Context, usuarios repository.UsuarioRepository, n *model.Notificacion) []string {
	if n.TargetUID != nil {
		id, err := uuid.Parse(*n.TargetUID)
		if err != nil {
			return nil
		}
		u, err := usuarios.FindByID(ctx, id)
		if err != nil || !u.Activo {
			return nil
		}
		return []string{u.Email}
	}
	if n.TargetRol != nil {
		miembros, err := usuarios.ListPorRol(ctx, *n.TargetRol)
		if err != nil {
			return nil
		}
		emails := make([]string, 0, len(miembros))
		for _, u := range miembros {
			emails = append(emails, u.Email)
		}
		return emails
	}
	return nil
}

// NewLimpiezaHandler borra del storage los adjuntos huérfanos. Es idempotente:
// un objeto ya borrado se da por limpiado.
func NewLimpiezaHandler(storage *infra.Storage) func(ctx context.Context, job JobLimpieza) error {
	return func(ctx context.Context, job JobLimpieza) error {
		if job.StoragePath == "" {
			return errors.New("job de limpieza sin ruta")
		}
		if err := storage.Eliminar(ctx, job.StoragePath); err != nil {
			return err
		}
		log.Debug().Str("path", job.StoragePath).Msg("adjunto eliminado del storage")
		return nil
	}
}
