package worker

import (
	"context"
	"encoding/json"
	"time"

	"oficialia/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	ColaNotificaciones = "jobs:notificaciones"
	ColaLimpieza       = "jobs:limpieza"
	ColaDLQ            = "jobs:dlq"
)

// JobNotificacion viaja por la cola de notificaciones.
type JobNotificacion struct {
	Notificacion model.Notificacion `json:"notificacion"`
	Encolado     time.Time          `json:"encolado"`
}

// JobLimpieza pide borrar un objeto huérfano del storage de adjuntos.
type JobLimpieza struct {
	StoragePath string    `json:"storagePath"`
	Encolado    time.Time `json:"encolado"`
}

// Dispatcher encola trabajo asíncrono en redis. Implementa
// service.Despachador: los encolados son fire-and-forget y un fallo solo se
// registra, nunca interrumpe la operación de negocio que lo originó.
type Dispatcher struct {
	client *redis.Client
}

func NewDispatcher(client *redis.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) EncolarNotificacion(ctx context.Context, n model.Notificacion) {
	d.encolar(ctx, ColaNotificaciones, JobNotificacion{Notificacion: n, Encolado: time.Now()})
}

func (d *Dispatcher) EncolarLimpieza(ctx context.Context, storagePath string) {
	d.encolar(ctx, ColaLimpieza, JobLimpieza{StoragePath: storagePath, Encolado: time.Now()})
}

func (d *Dispatcher) encolar(ctx context.Context, cola string, job interface{}) {
	payload, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("serializar job")
		return
	}
	if err := d.client.LPush(ctx, cola, payload).Err(); err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("encolar job")
	}
}
