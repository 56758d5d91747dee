package middleware

import (
	"net/http"
	"sync"
	"time"

	"oficialia/internal/apierror"

	"github.com/gin-gonic/gin"
)

// RateLimiter acota peticiones por IP con una ventana deslizante simple.
// Pensado para las rutas de autenticación, no para todo el tráfico.
func RateLimiter(max int, ventana time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	intentos := make(map[string][]time.Time)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		ahora := time.Now()
		corte := ahora.Add(-ventana)

		mu.Lock()
		vivos := intentos[ip][:0]
		for _, t := range intentos[ip] {
			if t.After(corte) {
				vivos = append(vivos, t)
			}
		}
		if len(vivos) >= max {
			intentos[ip] = vivos
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.Envelope("demasiadas peticiones, intente más tarde"))
			return
		}
		intentos[ip] = append(vivos, ahora)
		mu.Unlock()

		c.Next()
	}
}
