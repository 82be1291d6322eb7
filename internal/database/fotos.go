package database

import (
	"opregistro/internal/models"

	"gorm.io/gorm"
)

// FotosDe lista as fotos de uma origem para um conjunto de registros.
func FotosDe(db *gorm.DB, origem string, ids []uint) ([]models.Foto, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var fotos []models.Foto
	err := db.Where("tabela_origem = ? AND registro_id IN ?", origem, ids).Find(&fotos).Error
	return fotos, err
}

// DeleteFotosDe remove as linhas de foto de uma origem e devolve os
// caminhos dos arquivos, para remoção do disco depois do commit.
func DeleteFotosDe(tx *gorm.DB, origem string, ids []uint) ([]string, error) {
	fotos, err := FotosDe(tx, origem, ids)
	if err != nil {
		return nil, err
	}
	if len(fotos) == 0 {
		return nil, nil
	}
	if err := tx.Unscoped().
		Where("tabela_origem = ? AND registro_id IN ?", origem, ids).
		Delete(&models.Foto{}).Error; err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(fotos))
	for _, f := range fotos {
		paths = append(paths, f.CaminhoArquivo)
	}
	return paths, nil
}

// collectIDs busca os ids de uma tabela filtrando por uma coluna.
func collectIDs(db *gorm.DB, model any, where string, arg any) ([]uint, error) {
	var ids []uint
	err := db.Model(model).Where(where, arg).Pluck("id", &ids).Error
	return ids, err
}
