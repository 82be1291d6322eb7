package handlers

import (
	"net/http"
	"strings"

	"opregistro/internal/database"
	"opregistro/internal/middleware"
	"opregistro/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// orgaoDono resolve o órgão provedor dono de uma foto a partir da
// entidade de origem. Subitens de depósito chegam ao órgão via
// instalação; fotos de área edificável apontam direto para o órgão.
func orgaoDono(db *gorm.DB, f models.Foto) (uint, bool) {
	if f.TabelaOrigem == models.OrigemAreaEdificavel {
		return f.RegistroID, f.RegistroID != 0
	}

	var id uint
	var err error
	switch f.TabelaOrigem {
	case models.OrigemViatura:
		err = db.Raw("SELECT orgao_provedor_id FROM viaturas WHERE id = ?", f.RegistroID).Scan(&id).Error
	case models.OrigemGerador:
		err = db.Raw("SELECT orgao_provedor_id FROM geradores WHERE id = ?", f.RegistroID).Scan(&id).Error
	case models.OrigemInstalacao:
		err = db.Raw("SELECT orgao_provedor_id FROM instalacoes WHERE id = ?", f.RegistroID).Scan(&id).Error
	case models.OrigemEmpilhadeira:
		err = db.Raw(`SELECT i.orgao_provedor_id FROM empilhadeiras e
			JOIN instalacoes i ON i.id = e.instalacao_id WHERE e.id = ?`, f.RegistroID).Scan(&id).Error
	case models.OrigemSistemaSeguranca:
		err = db.Raw(`SELECT i.orgao_provedor_id FROM sistemas_seguranca s
			JOIN instalacoes i ON i.id = s.instalacao_id WHERE s.id = ?`, f.RegistroID).Scan(&id).Error
	case models.OrigemEquipamentoUnitizacao:
		err = db.Raw(`SELECT i.orgao_provedor_id FROM equipamentos_unitizacao q
			JOIN instalacoes i ON i.id = q.instalacao_id WHERE q.id = ?`, f.RegistroID).Scan(&id).Error
	default:
		return 0, false
	}
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// DeleteFoto exclui uma foto individual: primeiro a linha, depois o
// arquivo. Não-administradores só excluem fotos do próprio órgão.
// Responde JSON para uso pelo formulário de edição.
func DeleteFoto(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.NivelAcesso == models.NivelVisualizador {
		c.JSON(http.StatusForbidden, gin.H{"error": "seu perfil não permite excluir fotos"})
		return
	}

	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var foto models.Foto
	if err := database.DB.First(&foto, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "foto não encontrada"})
		return
	}

	if !user.IsAdmin() {
		donoID, ok := orgaoDono(database.DB, foto)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "você não tem permissão para excluir esta foto"})
			return
		}
		var dono models.OrgaoProvedor
		if err := database.DB.First(&dono, donoID).Error; err != nil || !podeEditar(user, &dono) {
			log.Warn().Uint("foto_id", id).Str("usuario", user.Username).
				Msg("tentativa de exclusão de foto de outro órgão")
			c.JSON(http.StatusForbidden, gin.H{"error": "você não tem permissão para excluir esta foto"})
			return
		}
	}

	if err := database.DB.Unscoped().Delete(&foto).Error; err != nil {
		log.Error().Err(err).Uint("foto_id", id).Msg("exclusão de foto falhou")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao excluir a foto"})
		return
	}
	fotos.Remove(foto.CaminhoArquivo)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ServeUpload entrega um arquivo salvo, recusando caminhos que escapem
// da raiz de uploads.
func ServeUpload(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	full, err := fotos.Resolve(rel)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(full)
}
