package handlers

import (
	"net/http"
	"strings"
	"time"

	"opregistro/internal/database"
	"opregistro/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", nil)
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, "Dados de login inválidos", "error", "/login")
		return
	}
	form.Username = strings.TrimSpace(form.Username)

	var user models.Usuario
	if err := database.DB.Where("username = ?", form.Username).First(&user).Error; err != nil {
		flashRedirect(c, "Usuário ou senha inválidos", "error", "/login")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		flashRedirect(c, "Usuário ou senha inválidos", "error", "/login")
		return
	}
	if !user.Ativo {
		flashRedirect(c, "Usuário inativo. Entre em contato com o administrador.", "error", "/login")
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("username", user.Username)
	sess.Set("nivel_acesso", string(user.NivelAcesso))
	sess.Set("orgao_provedor", user.OrgaoProvedor)
	_ = sess.Save()

	now := time.Now()
	if err := database.DB.Model(&user).Update("ultimo_acesso", &now).Error; err == nil {
		user.UltimoAcesso = &now
	}

	nome := user.NomeGuerra
	if nome == "" {
		nome = user.NomeCompleto
	}
	flashRedirect(c, "Login realizado com sucesso! Bem-vindo, "+nome, "success", "/")
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Set("flash", "Você saiu do sistema")
	sess.Set("flash_type", "info")
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}

// sessionNivel lê o nível de acesso corrente da sessão.
func sessionNivel(c *gin.Context) models.NivelAcesso {
	sess := sessions.Default(c)
	nivel, _ := sess.Get("nivel_acesso").(string)
	return models.NivelAcesso(nivel)
}

func sessionUserID(c *gin.Context) uint {
	sess := sessions.Default(c)
	uid, _ := sess.Get("user_id").(uint)
	return uid
}

func sessionOrgao(c *gin.Context) string {
	sess := sessions.Default(c)
	org, _ := sess.Get("orgao_provedor").(string)
	return org
}
