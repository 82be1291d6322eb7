package middleware

import (
	"opregistro/internal/database"
	"opregistro/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// InjectUser carrega o usuário da sessão e o expõe no contexto para os
// handlers e para o render.
func InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				var user models.Usuario
				if err := database.DB.First(&user, uid).Error; err == nil {
					c.Set("CurrentUser", user)
				}
			}
		}

		c.Next()
	}
}

// CurrentUser recupera o usuário injetado, se houver.
func CurrentUser(c *gin.Context) (models.Usuario, bool) {
	if v, ok := c.Get("CurrentUser"); ok {
		if u, ok := v.(models.Usuario); ok {
			return u, true
		}
	}
	return models.Usuario{}, false
}
