package database

import (
	"fmt"

	"opregistro/internal/models"

	"gorm.io/gorm"
)

// DeleteInstalacoesDe remove todas as instalações de um órgão com seus
// subitens de depósito e respectivas fotos. Devolve os caminhos dos
// arquivos de foto a remover do disco.
func DeleteInstalacoesDe(tx *gorm.DB, orgaoID uint) ([]string, error) {
	instIDs, err := collectIDs(tx, &models.Instalacao{}, "orgao_provedor_id = ?", orgaoID)
	if err != nil {
		return nil, err
	}
	if len(instIDs) == 0 {
		return nil, nil
	}

	var paths []string
	subitens := []struct {
		model  any
		origem string
	}{
		{&models.Empilhadeira{}, models.OrigemEmpilhadeira},
		{&models.SistemaSeguranca{}, models.OrigemSistemaSeguranca},
		{&models.EquipamentoUnitizacao{}, models.OrigemEquipamentoUnitizacao},
	}
	for _, s := range subitens {
		var ids []uint
		if err := tx.Model(s.model).Where("instalacao_id IN ?", instIDs).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		p, err := DeleteFotosDe(tx, s.origem, ids)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p...)
		if err := tx.Unscoped().Where("instalacao_id IN ?", instIDs).Delete(s.model).Error; err != nil {
			return nil, err
		}
	}

	p, err := DeleteFotosDe(tx, models.OrigemInstalacao, instIDs)
	if err != nil {
		return nil, err
	}
	paths = append(paths, p...)

	if err := tx.Unscoped().Where("id IN ?", instIDs).Delete(&models.Instalacao{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteViaturasDe remove as viaturas de um órgão e suas fotos.
func DeleteViaturasDe(tx *gorm.DB, orgaoID uint) ([]string, error) {
	ids, err := collectIDs(tx, &models.Viatura{}, "orgao_provedor_id = ?", orgaoID)
	if err != nil {
		return nil, err
	}
	paths, err := DeleteFotosDe(tx, models.OrigemViatura, ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).Delete(&models.Viatura{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteGeradoresDe remove os geradores de um órgão e suas fotos.
func DeleteGeradoresDe(tx *gorm.DB, orgaoID uint) ([]string, error) {
	ids, err := collectIDs(tx, &models.Gerador{}, "orgao_provedor_id = ?", orgaoID)
	if err != nil {
		return nil, err
	}
	paths, err := DeleteFotosDe(tx, models.OrigemGerador, ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).Delete(&models.Gerador{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteOrgaoCascade exclui um órgão provedor com todos os registros
// dependentes, diretos e transitivos. Devolve os caminhos de todas as
// fotos removidas para que o chamador apague os arquivos após o commit.
func DeleteOrgaoCascade(tx *gorm.DB, orgaoID uint) ([]string, error) {
	var orgao models.OrgaoProvedor
	if err := tx.First(&orgao, orgaoID).Error; err != nil {
		return nil, fmt.Errorf("órgão provedor não encontrado: %w", err)
	}

	var paths []string

	p, err := DeleteInstalacoesDe(tx, orgaoID)
	if err != nil {
		return nil, err
	}
	paths = append(paths, p...)

	p, err = DeleteGeradoresDe(tx, orgaoID)
	if err != nil {
		return nil, err
	}
	paths = append(paths, p...)

	p, err = DeleteViaturasDe(tx, orgaoID)
	if err != nil {
		return nil, err
	}
	paths = append(paths, p...)

	// fotos da área edificável apontam direto para o órgão
	p, err = DeleteFotosDe(tx, models.OrigemAreaEdificavel, []uint{orgaoID})
	if err != nil {
		return nil, err
	}
	paths = append(paths, p...)

	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).Delete(&models.EnergiaEletrica{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgaoID).Delete(&models.Pessoal{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Unscoped().Delete(&models.OrgaoProvedor{}, orgaoID).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
