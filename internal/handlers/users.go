package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"opregistro/internal/database"
	"opregistro/internal/middleware"
	"opregistro/internal/models"
	"opregistro/internal/refdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const senhaMinima = 8

// Usuarios lista as contas cadastradas (rota de administrador).
func Usuarios(c *gin.Context) {
	var usuarios []models.Usuario
	if err := database.DB.Order("created_at DESC").Find(&usuarios).Error; err != nil {
		flashRedirect(c, "Erro ao carregar os usuários.", "error", "/")
		return
	}
	render(c, http.StatusOK, "usuarios.html", gin.H{
		"Usuarios":         usuarios,
		"OrgaosProvedores": refdata.OrgaosProvedores,
		"PostoMap":         refdata.PostoMap,
	})
}

func ShowCadastrarUsuario(c *gin.Context) {
	render(c, http.StatusOK, "cadastrar_usuario.html", gin.H{
		"OrgaosProvedores": refdata.OrgaosProvedores,
		"PostoMap":         refdata.PostoMap,
	})
}

type usuarioForm struct {
	UsuarioID      uint   `form:"usuario_id"`
	Username       string `form:"username"`
	Password       string `form:"password"`
	NomeCompleto   string `form:"nome_completo"`
	NomeGuerra     string `form:"nome_guerra"`
	PostoGraduacao string `form:"posto_graduacao"`
	OrgaoProvedor  string `form:"orgao_provedor"`
	Email          string `form:"email"`
	NivelAcesso    string `form:"nivel_acesso"`
}

// validarUsuario aplica as regras de conta: campos obrigatórios, órgão
// do catálogo, username único e no máximo um usuário não-administrador
// por órgão. `ignorarID` exclui o próprio registro nas buscas de
// duplicidade (edição).
func validarUsuario(f *usuarioForm, nivel models.NivelAcesso, ignorarID uint) string {
	f.Username = strings.TrimSpace(f.Username)
	f.NomeCompleto = strings.TrimSpace(f.NomeCompleto)
	f.OrgaoProvedor = strings.TrimSpace(f.OrgaoProvedor)

	if f.Username == "" || f.NomeCompleto == "" {
		return "Preencha os campos obrigatórios (usuário e nome completo)."
	}
	if nivel != models.NivelAdmin {
		if f.OrgaoProvedor == "" {
			return "Vincule o usuário a um Órgão Provedor."
		}
		if !refdata.ValidOrgao(f.OrgaoProvedor) {
			return "Órgão Provedor não consta na lista de órgãos cadastráveis."
		}
	}

	var count int64
	q := database.DB.Model(&models.Usuario{}).Where("username = ?", f.Username)
	if ignorarID != 0 {
		q = q.Where("id <> ?", ignorarID)
	}
	if q.Count(&count); count > 0 {
		return fmt.Sprintf("O nome de usuário '%s' já está em uso.", f.Username)
	}

	// um único responsável não-administrador por órgão
	if nivel != models.NivelAdmin {
		var existentes []models.Usuario
		if err := database.DB.Where("nivel_acesso <> ?", models.NivelAdmin).Find(&existentes).Error; err == nil {
			for _, u := range existentes {
				if u.ID == ignorarID {
					continue
				}
				if refdata.SameOrgao(u.OrgaoProvedor, f.OrgaoProvedor) {
					return fmt.Sprintf("O órgão '%s' já possui um usuário cadastrado (%s).", f.OrgaoProvedor, u.Username)
				}
			}
		}
	}
	return ""
}

// CadastrarUsuario cria ou atualiza uma conta (rota de administrador).
// Com usuario_id preenchido a mesma rota funciona como edição.
func CadastrarUsuario(c *gin.Context) {
	var f usuarioForm
	if err := c.ShouldBind(&f); err != nil {
		flashRedirect(c, "Formulário inválido.", "error", "/usuarios")
		return
	}
	nivel := models.CoerceNivel(f.NivelAcesso)

	if msg := validarUsuario(&f, nivel, f.UsuarioID); msg != "" {
		flashRedirect(c, msg, "error", "/usuarios")
		return
	}

	if f.UsuarioID == 0 {
		if len(f.Password) < senhaMinima {
			flashRedirect(c, fmt.Sprintf("A senha deve ter no mínimo %d caracteres.", senhaMinima), "error", "/usuarios")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			flashRedirect(c, "Erro ao processar a senha.", "error", "/usuarios")
			return
		}
		user := models.Usuario{
			Username:       f.Username,
			PasswordHash:   string(hash),
			NomeCompleto:   f.NomeCompleto,
			NomeGuerra:     strings.TrimSpace(f.NomeGuerra),
			PostoGraduacao: strings.TrimSpace(f.PostoGraduacao),
			OrgaoProvedor:  f.OrgaoProvedor,
			Email:          strings.TrimSpace(f.Email),
			NivelAcesso:    nivel,
			Ativo:          true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Error().Err(err).Str("username", f.Username).Msg("criação de usuário falhou")
			flashRedirect(c, "Erro ao criar o usuário.", "error", "/usuarios")
			return
		}
		flashRedirect(c, fmt.Sprintf("Usuário '%s' criado com sucesso!", f.Username), "success", "/usuarios")
		return
	}

	var user models.Usuario
	if err := database.DB.First(&user, f.UsuarioID).Error; err != nil {
		flashRedirect(c, "Usuário não encontrado.", "error", "/usuarios")
		return
	}
	user.Username = f.Username
	user.NomeCompleto = f.NomeCompleto
	user.NomeGuerra = strings.TrimSpace(f.NomeGuerra)
	user.PostoGraduacao = strings.TrimSpace(f.PostoGraduacao)
	user.OrgaoProvedor = f.OrgaoProvedor
	user.Email = strings.TrimSpace(f.Email)
	user.NivelAcesso = nivel
	if f.Password != "" {
		if len(f.Password) < senhaMinima {
			flashRedirect(c, fmt.Sprintf("A senha deve ter no mínimo %d caracteres.", senhaMinima), "error", "/usuarios")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			flashRedirect(c, "Erro ao processar a senha.", "error", "/usuarios")
			return
		}
		user.PasswordHash = string(hash)
	}
	if err := database.DB.Save(&user).Error; err != nil {
		flashRedirect(c, "Erro ao atualizar o usuário.", "error", "/usuarios")
		return
	}
	flashRedirect(c, fmt.Sprintf("Usuário '%s' atualizado com sucesso!", f.Username), "success", "/usuarios")
}

// APIGetUsuario devolve uma conta para preenchimento do formulário de
// edição no cliente.
func APIGetUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var user models.Usuario
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"nome_completo":   user.NomeCompleto,
		"nome_guerra":     user.NomeGuerra,
		"posto_graduacao": user.PostoGraduacao,
		"orgao_provedor":  user.OrgaoProvedor,
		"email":           user.Email,
		"nivel_acesso":    user.NivelAcesso,
		"ativo":           user.Ativo,
	})
}

// APIToggleUsuario ativa/desativa uma conta. O administrador não pode
// desativar a si próprio.
func APIToggleUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if id == sessionUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "você não pode alterar o status da sua própria conta"})
		return
	}
	var user models.Usuario
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	user.Ativo = !user.Ativo
	if err := database.DB.Model(&user).Update("ativo", user.Ativo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao atualizar o usuário"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ativo": user.Ativo})
}

// APIDeleteUsuario exclui uma conta. Auto-exclusão é bloqueada.
func APIDeleteUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if id == sessionUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "você não pode excluir a sua própria conta"})
		return
	}
	var user models.Usuario
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	if err := database.DB.Unscoped().Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao excluir o usuário"})
		return
	}
	log.Info().Str("username", user.Username).Msg("usuário excluído")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Perfil exibe os dados da própria conta.
func Perfil(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	render(c, http.StatusOK, "perfil.html", gin.H{
		"Usuario":  user,
		"PostoMap": refdata.PostoMap,
	})
}

type perfilForm struct {
	NomeCompleto    string `form:"nome_completo"`
	NomeGuerra      string `form:"nome_guerra"`
	PostoGraduacao  string `form:"posto_graduacao"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

// EditarPerfil permite ao usuário atualizar os próprios dados e senha.
func EditarPerfil(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	var f perfilForm
	if err := c.ShouldBind(&f); err != nil {
		flashRedirect(c, "Formulário inválido.", "error", "/perfil")
		return
	}

	if nome := strings.TrimSpace(f.NomeCompleto); nome != "" {
		user.NomeCompleto = nome
	}
	user.NomeGuerra = strings.TrimSpace(f.NomeGuerra)
	user.PostoGraduacao = strings.TrimSpace(f.PostoGraduacao)
	user.Email = strings.TrimSpace(f.Email)

	if f.Password != "" {
		if f.Password != f.PasswordConfirm {
			flashRedirect(c, "As senhas informadas não conferem.", "error", "/perfil")
			return
		}
		if len(f.Password) < senhaMinima {
			flashRedirect(c, fmt.Sprintf("A senha deve ter no mínimo %d caracteres.", senhaMinima), "error", "/perfil")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			flashRedirect(c, "Erro ao processar a senha.", "error", "/perfil")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := database.DB.Save(&user).Error; err != nil {
		flashRedirect(c, "Erro ao atualizar o perfil.", "error", "/perfil")
		return
	}
	flashRedirect(c, "Perfil atualizado com sucesso!", "success", "/perfil")
}
