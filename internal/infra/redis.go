package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"oficialia/internal/bandeja"
	"oficialia/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// canalEventos transporta el documento completo de cada requisición mutada.
const canalEventos = "requisiciones:eventos"

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Msg("conexión a redis lista")
	return client, nil
}

// EventBus publica y suscribe eventos de documento sobre redis pub/sub.
// Implementa service.Publicador y bandeja.Fuente.
type EventBus struct {
	client *redis.Client
}

func NewEventBus(client *redis.Client) *EventBus {
	return &EventBus{client: client}
}

// PublicarRequisicion difunde el documento actualizado. Es fire-and-forget:
// las bandejas resiembran desde la base al reconectar, así que un evento
// perdido no corrompe nada.
func (b *EventBus) PublicarRequisicion(ctx context.Context, r *model.Requisicion) {
	b.publicar(ctx, bandeja.Evento{Requisicion: *r})
}

// PublicarBaja difunde la eliminación de un documento para que las bandejas
// vivas lo retiren; un documento eliminado no vuelve a emitir eventos.
func (b *EventBus) PublicarBaja(ctx context.Context, r *model.Requisicion) {
	b.publicar(ctx, bandeja.Evento{Baja: true, Requisicion: *r})
}

func (b *EventBus) publicar(ctx context.Context, ev bandeja.Evento) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("folio", ev.Requisicion.Folio).Msg("serializar evento de requisición")
		return
	}
	if err := b.client.Publish(ctx, canalEventos, payload).Err(); err != nil {
		log.Error().Err(err).Str("folio", ev.Requisicion.Folio).Msg("publicar evento de requisición")
	}
}

// Suscribir abre la suscripción pub/sub y la adapta al canal tipado que
// consumen las bandejas. El canal se cierra cuando el contexto se cancela.
func (b *EventBus) Suscribir(ctx context.Context) (<-chan bandeja.Evento, func(), error) {
	sub := b.client.Subscribe(ctx, canalEventos)
	// Receive fuerza la confirmación de la suscripción antes de devolver.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("suscribir a %s: %w", canalEventos, err)
	}

	// Cerrar la suscripción al cancelar el contexto termina sub.Channel() y
	// con él el bucle de reenvío.
	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	out := make(chan bandeja.Evento)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev bandeja.Evento
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Msg("evento de requisición ilegible")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cerrar := func() { _ = sub.Close() }
	return out, cerrar, nil
}
