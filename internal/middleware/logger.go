package middleware

import (
	"net/http"
	"time"

	"oficialia/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID propaga o genera el identificador de la petición.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger registra cada petición con zerolog.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		evento := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evento = log.Error()
		}
		evento.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(inicio)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery convierte un panic en 500 sin tumbar el proceso.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierror.Envelope("error interno del servidor"))
			}
		}()
		c.Next()
	}
}
