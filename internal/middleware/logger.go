package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestLogger registra método, rota, status e latência de cada
// requisição.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Error()
		}
		ev.Str("metodo", c.Request.Method).
			Str("rota", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latencia", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("requisição")
	}
}
