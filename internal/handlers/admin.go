package handlers

import (
	"fmt"
	"net/http"
	"time"

	"opregistro/internal/database"
	"opregistro/internal/models"
	"opregistro/internal/reports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AdminPanel mostra os totais e os últimos cadastros.
func AdminPanel(c *gin.Context) {
	var totalOrgaos, totalUsuarios, totalViaturas, totalInstalacoes int64
	database.DB.Model(&models.OrgaoProvedor{}).Count(&totalOrgaos)
	database.DB.Model(&models.Usuario{}).Count(&totalUsuarios)
	database.DB.Model(&models.Viatura{}).Count(&totalViaturas)
	database.DB.Model(&models.Instalacao{}).Count(&totalInstalacoes)

	var ultimosOrgaos []models.OrgaoProvedor
	database.DB.Order("created_at DESC").Limit(10).Find(&ultimosOrgaos)
	var ultimosUsuarios []models.Usuario
	database.DB.Order("created_at DESC").Limit(10).Find(&ultimosUsuarios)

	render(c, http.StatusOK, "admin.html", gin.H{
		"TotalOrgaos":      totalOrgaos,
		"TotalUsuarios":    totalUsuarios,
		"TotalViaturas":    totalViaturas,
		"TotalInstalacoes": totalInstalacoes,
		"UltimosOrgaos":    ultimosOrgaos,
		"UltimosUsuarios":  ultimosUsuarios,
	})
}

// Backup entrega uma cópia bruta do arquivo do banco.
func Backup(c *gin.Context) {
	nome := fmt.Sprintf("backup_op_%s.db", time.Now().Format("20060102_150405"))
	log.Info().Str("arquivo", cfg.DBPath).Msg("backup do banco solicitado")
	c.FileAttachment(cfg.DBPath, nome)
}

// RelatorioCSVDownload baixa o relatório gerencial consolidado em CSV.
func RelatorioCSVDownload(c *gin.Context) {
	csv, err := reports.RelatorioCSV(database.DB)
	if err != nil {
		log.Error().Err(err).Msg("relatório CSV falhou")
		flashRedirect(c, "Erro ao gerar o relatório.", "error", "/admin")
		return
	}
	nome := fmt.Sprintf("relatorio_op_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RelatorioViaturasExcelDownload baixa a planilha de viaturas.
func RelatorioViaturasExcelDownload(c *gin.Context) {
	f, err := reports.RelatorioViaturasExcel(database.DB)
	if err != nil {
		log.Error().Err(err).Msg("relatório de viaturas falhou")
		flashRedirect(c, "Erro ao gerar o relatório de viaturas.", "error", "/admin")
		return
	}
	nome := fmt.Sprintf("relatorio_viaturas_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Header("Content-Type", mimeXLSX)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("envio do relatório de viaturas falhou")
	}
}

// RelatorioEmpilhadeirasExcelDownload baixa a planilha de empilhadeiras.
func RelatorioEmpilhadeirasExcelDownload(c *gin.Context) {
	f, err := reports.RelatorioEmpilhadeirasExcel(database.DB)
	if err != nil {
		log.Error().Err(err).Msg("relatório de empilhadeiras falhou")
		flashRedirect(c, "Erro ao gerar o relatório de empilhadeiras.", "error", "/admin")
		return
	}
	nome := fmt.Sprintf("relatorio_empilhadeiras_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Header("Content-Type", mimeXLSX)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("envio do relatório de empilhadeiras falhou")
	}
}
