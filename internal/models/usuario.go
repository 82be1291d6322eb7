package models

import (
	"time"

	"gorm.io/gorm"
)

type NivelAcesso string

const (
	NivelAdmin        NivelAcesso = "admin"
	NivelCadastrador  NivelAcesso = "cadastrador"
	NivelVisualizador NivelAcesso = "visualizador"
)

// CoerceNivel reduz qualquer entrada ao vocabulário permitido.
func CoerceNivel(s string) NivelAcesso {
	switch NivelAcesso(s) {
	case NivelAdmin, NivelCadastrador, NivelVisualizador:
		return NivelAcesso(s)
	default:
		return NivelVisualizador
	}
}

type Usuario struct {
	gorm.Model
	Username       string      `gorm:"uniqueIndex;size:80;not null"`
	PasswordHash   string      `gorm:"not null"`
	NomeCompleto   string      `gorm:"size:255;not null"`
	NomeGuerra     string      `gorm:"size:100"`
	PostoGraduacao string      `gorm:"size:100"`
	OrgaoProvedor  string      `gorm:"size:255"` // nome do órgão ao qual o usuário está vinculado
	Email          string      `gorm:"size:255"`
	NivelAcesso    NivelAcesso `gorm:"type:varchar(20);not null;default:'visualizador'"`
	Ativo          bool        `gorm:"not null;default:true"`
	UltimoAcesso   *time.Time
}

func (u *Usuario) IsAdmin() bool {
	return u.NivelAcesso == NivelAdmin
}
