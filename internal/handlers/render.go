package handlers

import (
	"net/http"

	"opregistro/internal/config"
	"opregistro/internal/middleware"
	"opregistro/internal/refdata"
	"opregistro/internal/uploads"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// dependências compartilhadas pelos handlers, definidas uma vez no boot.
var (
	cfg     *config.Config
	dataset *refdata.Dataset
	fotos   *uploads.Manager
)

// Setup injeta a configuração, os dados de referência (imutáveis) e o
// gerenciador de uploads.
func Setup(c *config.Config, ds *refdata.Dataset, m *uploads.Manager) {
	cfg = c
	dataset = ds
	fotos = m
}

// render — envelope sobre c.HTML que propaga o usuário corrente e a
// flash pendente para todos os templates.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = u
		data["CurrentUsername"] = u.Username
		data["CurrentNivel"] = u.NivelAcesso
	}

	sess := sessions.Default(c)
	if msg, ok := sess.Get("flash").(string); ok && msg != "" {
		data["Flash"] = msg
		data["FlashType"], _ = sess.Get("flash_type").(string)
		sess.Delete("flash")
		sess.Delete("flash_type")
		_ = sess.Save()
	}

	c.HTML(status, tmpl, data)
}

// setFlash agenda uma mensagem one-shot para a próxima página.
func setFlash(c *gin.Context, msg, tipo string) {
	sess := sessions.Default(c)
	sess.Set("flash", msg)
	sess.Set("flash_type", tipo)
	_ = sess.Save()
}

// flashRedirect é o desfecho padrão das rotas de navegador: mensagem +
// redirect, nunca erro HTTP.
func flashRedirect(c *gin.Context, msg, tipo, location string) {
	setFlash(c, msg, tipo)
	c.Redirect(http.StatusFound, location)
}
