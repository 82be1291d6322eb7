package handlers

import (
	"net/http"
	"strings"

	"opregistro/internal/database"
	"opregistro/internal/middleware"
	"opregistro/internal/models"
	"opregistro/internal/refdata"
	"opregistro/internal/reports"

	"github.com/gin-gonic/gin"
)

// resumo de um órgão na tabela do painel.
type orgaoResumo struct {
	Orgao    models.OrgaoProvedor
	OMsCount int
	Efetivo  int
}

func contaOMs(historico string) int {
	n := 0
	for _, p := range strings.Split(historico, ",") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// Index é o painel inicial. Administradores veem todos os órgãos com os
// agregados analíticos; os demais veem apenas o órgão ao qual estão
// vinculados.
func Index(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if user.IsAdmin() {
		var orgaos []models.OrgaoProvedor
		if err := database.DB.Order("created_at DESC").Find(&orgaos).Error; err != nil {
			render(c, http.StatusInternalServerError, "index.html", gin.H{"Erro": "Erro ao carregar os órgãos provedores"})
			return
		}

		resumos := make([]orgaoResumo, 0, len(orgaos))
		for _, o := range orgaos {
			efetivo := o.EfetivoAtendimento
			if efetivo == 0 {
				// órgãos antigos sem efetivo gravado: estima pelas planilhas
				efetivo = dataset.DadosAutomaticosOP(o.Sigla).EfetivoTotal
			}
			resumos = append(resumos, orgaoResumo{Orgao: o, OMsCount: contaOMs(o.Historico), Efetivo: efetivo})
		}

		render(c, http.StatusOK, "index.html", gin.H{
			"IsAdmin":    true,
			"Orgaos":     resumos,
			"Total":      len(orgaos),
			"Analiticos": reports.BuildAnaliticos(database.DB, orgaos),
		})
		return
	}

	if user.OrgaoProvedor == "" {
		render(c, http.StatusOK, "index.html", gin.H{
			"Flash":     "Seu usuário não está vinculado a um Órgão Provedor. Entre em contato com o administrador.",
			"FlashType": "warning",
		})
		return
	}

	orgao, found := findOrgaoPorNome(user.OrgaoProvedor)
	render(c, http.StatusOK, "index.html", gin.H{
		"IsAdmin":     false,
		"MeuOrgao":    orgao,
		"TemCadastro": found,
	})
}

// findOrgaoPorNome localiza um órgão pelo nome com tolerância a acento e
// caixa: primeiro a igualdade direta, depois a varredura normalizada.
func findOrgaoPorNome(nome string) (*models.OrgaoProvedor, bool) {
	var orgao models.OrgaoProvedor
	if err := database.DB.Where("nome = ?", nome).First(&orgao).Error; err == nil {
		return &orgao, true
	}

	var todos []models.OrgaoProvedor
	if err := database.DB.Find(&todos).Error; err != nil {
		return nil, false
	}
	for i := range todos {
		if refdata.SameOrgao(todos[i].Nome, nome) {
			return &todos[i], true
		}
	}
	return nil, false
}
