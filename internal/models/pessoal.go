package models

import (
	"strings"

	"gorm.io/gorm"
)

type TipoServico string

const (
	ServicoCarreira   TipoServico = "carreira"
	ServicoTemporario TipoServico = "temporario"
)

func CoerceTipoServico(s string) TipoServico {
	if TipoServico(strings.TrimSpace(s)) == ServicoTemporario {
		return ServicoTemporario
	}
	return ServicoCarreira
}

// Pessoal registra quantitativos agregados por posto/graduação,
// não militares individuais.
type Pessoal struct {
	gorm.Model
	OrgaoProvedorID   uint        `gorm:"not null;index"`
	PostoGraduacao    string      `gorm:"size:100;not null"`
	ArmaQuadroServico string      `gorm:"size:100;not null"`
	Especialidade     string      `gorm:"size:100"`
	Funcao            string      `gorm:"size:100"`
	TipoServico       TipoServico `gorm:"type:varchar(20);not null"`
	Quantidade        int         `gorm:"not null;default:1"`
	Observacoes       string      `gorm:"type:text"`
}

func (Pessoal) TableName() string { return "pessoal" }
