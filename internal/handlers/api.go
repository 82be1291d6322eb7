package handlers

import (
	"fmt"
	"net/http"

	"opregistro/internal/database"
	"opregistro/internal/forms"
	"opregistro/internal/middleware"
	"opregistro/internal/models"
	"opregistro/internal/refdata"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var validate = validator.New()

// BuscarUGCodom resolve os códigos UG/CODOM de uma OM pela sigla.
func BuscarUGCodom(c *gin.Context) {
	sigla := c.Query("sigla")
	if sigla == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "informe a sigla"})
		return
	}
	info := dataset.UGCodomFor(sigla)
	c.JSON(http.StatusOK, gin.H{
		"sigla":        sigla,
		"codom":        info.Codom,
		"ug":           info.UG,
		"subordinacao": info.Subordinacao,
	})
}

// BuscarSubordinacao resolve a subordinação de uma OM pelo CODOM.
func BuscarSubordinacao(c *gin.Context) {
	codom := c.Query("codom")
	if codom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "informe o codom"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"codom":        codom,
		"subordinacao": dataset.SubordinacaoByCodom(codom),
	})
}

// DadosAutomaticosOP consolida OMs apoiadas, efetivo e estimativas de
// suprimento para pré-preenchimento do cadastro.
func DadosAutomaticosOP(c *gin.Context) {
	sigla := c.Query("sigla")
	c.JSON(http.StatusOK, dataset.DadosAutomaticosOP(sigla))
}

// rascunho parcial do cadastro enviado pelo cliente em JSON.
type salvarCadastroReq struct {
	forms.OrgaoForm
	Geradores []forms.GeradorPayload `json:"geradores"`
	Energia   []forms.EnergiaPayload `json:"energia"`
}

// SalvarCadastro grava (ou regrava) um rascunho do cadastro via JSON:
// os campos escalares do órgão mais os blocos de energia e geradores.
func SalvarCadastro(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.NivelAcesso == models.NivelVisualizador {
		c.JSON(http.StatusForbidden, gin.H{"error": "seu perfil não permite cadastrar"})
		return
	}

	var req salvarCadastroReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}
	if err := validate.Var(req.Nome, "required"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "informe o nome do Órgão Provedor"})
		return
	}
	if msg := validarOrgaoForm(user, &req.OrgaoForm); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var orgao models.OrgaoProvedor
	novo := true
	if existente, ok := findOrgaoPorNome(req.NomeLimpo()); ok {
		orgao = *existente
		novo = false
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		req.Apply(&orgao)
		if orgao.Sigla == "" {
			orgao.Sigla = refdata.SiglaFor(orgao.Nome)
		}
		if novo {
			orgao.CriadoPor = user.ID
			if err := tx.Create(&orgao).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&orgao).Error; err != nil {
			return err
		}
		return substituirEnergiaGeradores(tx, orgao.ID, req.Energia, req.Geradores)
	})
	if err != nil {
		log.Error().Err(err).Str("orgao", req.NomeLimpo()).Msg("salvar rascunho falhou")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao salvar: " + err.Error()})
		return
	}

	msg := "Dados salvos com sucesso."
	if novo {
		msg = "Cadastro iniciado com sucesso."
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"id":       orgao.ID,
		"message":  msg,
		"redirect": fmt.Sprintf("/orgao/%d/editar", orgao.ID),
	})
}

type salvarGeradoresReq struct {
	OrgaoID   uint                   `json:"orgao_id" validate:"required"`
	Geradores []forms.GeradorPayload `json:"geradores"`
	Energia   []forms.EnergiaPayload `json:"energia"`
}

// SalvarGeradores substitui os blocos de energia elétrica e geradores
// de um órgão sem tocar no restante do cadastro.
func SalvarGeradores(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.NivelAcesso == models.NivelVisualizador {
		c.JSON(http.StatusForbidden, gin.H{"error": "seu perfil não permite cadastrar"})
		return
	}

	var req salvarGeradoresReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "informe o órgão"})
		return
	}

	var orgao models.OrgaoProvedor
	if err := database.DB.First(&orgao, req.OrgaoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "órgão provedor não encontrado"})
		return
	}
	if !podeEditar(user, &orgao) {
		c.JSON(http.StatusForbidden, gin.H{"error": "você não tem permissão para editar este órgão"})
		return
	}

	var arquivos []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		p, err := database.DeleteGeradoresDe(tx, orgao.ID)
		if err != nil {
			return err
		}
		arquivos = p
		if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgao.ID).
			Delete(&models.EnergiaEletrica{}).Error; err != nil {
			return err
		}
		return inserirEnergiaGeradores(tx, orgao.ID, req.Energia, req.Geradores)
	})
	if err != nil {
		log.Error().Err(err).Uint("orgao_id", req.OrgaoID).Msg("salvar geradores falhou")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao salvar: " + err.Error()})
		return
	}

	for _, rel := range arquivos {
		fotos.Remove(rel)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Energia e geradores atualizados com sucesso."})
}

func substituirEnergiaGeradores(tx *gorm.DB, orgaoID uint, energia []forms.EnergiaPayload, geradores []forms.GeradorPayload) error {
	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).
		Delete(&models.EnergiaEletrica{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).
		Delete(&models.Gerador{}).Error; err != nil {
		return err
	}
	return inserirEnergiaGeradores(tx, orgaoID, energia, geradores)
}

func inserirEnergiaGeradores(tx *gorm.DB, orgaoID uint, energia []forms.EnergiaPayload, geradores []forms.GeradorPayload) error {
	for _, e := range energia {
		if e.Empty() {
			continue
		}
		en := e.ToModel(orgaoID)
		if err := tx.Create(&en).Error; err != nil {
			return fmt.Errorf("energia elétrica: %w", err)
		}
	}
	for _, g := range geradores {
		if g.Empty() {
			continue
		}
		ger := g.ToModel(orgaoID)
		if err := tx.Create(&ger).Error; err != nil {
			return fmt.Errorf("gerador: %w", err)
		}
	}
	return nil
}
