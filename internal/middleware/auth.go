package middleware

import (
	"net/http"

	"opregistro/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if sess.Get("user_id") == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin barra não-administradores com flash e redirect para o
// índice, nunca com erro HTTP (rotas de navegador).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		nivel, _ := sess.Get("nivel_acesso").(string)
		if models.NivelAcesso(nivel) != models.NivelAdmin {
			sess.Set("flash", "Acesso negado. Somente administradores podem acessar esta funcionalidade.")
			sess.Set("flash_type", "error")
			_ = sess.Save()
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI é a variante para rotas JSON: 403 com corpo
// estruturado em vez de redirect.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		nivel, _ := sess.Get("nivel_acesso").(string)
		if models.NivelAcesso(nivel) != models.NivelAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso restrito a administradores"})
			return
		}
		c.Next()
	}
}
