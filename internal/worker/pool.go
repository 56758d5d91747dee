package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers agrupa los procesadores de cada cola.
type Handlers struct {
	Notificacion func(ctx context.Context, job JobNotificacion) error
	Limpieza     func(ctx context.Context, job JobLimpieza) error
}

// Pool consume las colas de trabajo con BRPOP. Un job cuyo handler falla se
// mueve a la cola muerta con el error adjunto; el pool nunca lo descarta.
type Pool struct {
	client   *redis.Client
	handlers Handlers
	size     int
	wg       sync.WaitGroup
}

func NewPool(client *redis.Client, size int, handlers Handlers) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{client: client, handlers: handlers, size: size}
}

// Start lanza los workers. Se detienen cuando el contexto se cancela.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("pool de workers iniciado")
}

// Wait bloquea hasta que todos los workers terminaron.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		res, err := p.client.BRPop(ctx, 5*time.Second, ColaNotificaciones, ColaLimpieza).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Int("worker", id).Msg("brpop falló")
			time.Sleep(time.Second)
			continue
		}
		// res[0] es la cola, res[1] el payload.
		p.procesar(ctx, res[0], res[1])
	}
}

func (p *Pool) procesar(ctx context.Context, cola, payload string) {
	var err error
	switch cola {
	case ColaNotificaciones:
		var job JobNotificacion
		if err = json.Unmarshal([]byte(payload), &job); err == nil {
			err = p.handlers.Notificacion(ctx, job)
		}
	case ColaLimpieza:
		var job JobLimpieza
		if err = json.Unmarshal([]byte(payload), &job); err == nil {
			err = p.handlers.Limpieza(ctx, job)
		}
	default:
		log.Warn().Str("cola", cola).Msg("cola desconocida")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("job falló, enviado a la cola muerta")
		p.aDLQ(ctx, cola, payload, err)
	}
}

type entradaDLQ struct {
	Cola    string    `json:"cola"`
	Payload string    `json:"payload"`
	Error   string    `json:"error"`
	Fecha   time.Time `json:"fecha"`
}

func (p *Pool) aDLQ(ctx context.Context, cola, payload string, causa error) {
	entrada, err := json.Marshal(entradaDLQ{
		Cola: cola, Payload: payload, Error: causa.Error(), Fecha: time.Now(),
	})
	if err != nil {
		return
	}
	// Sin contexto del caller: el job ya salió de su cola y no debe perderse
	// aunque el pool esté apagándose.
	if err := p.client.LPush(context.Background(), ColaDLQ, entrada).Err(); err != nil {
		log.Error().Err(err).Msg("no se pudo escribir en la cola muerta")
	}
}
