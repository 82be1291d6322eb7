package models

import (
	"strings"

	"gorm.io/gorm"
)

type Instalacao struct {
	gorm.Model
	OrgaoProvedorID     uint   `gorm:"not null;index"`
	TipoInstalacao      string `gorm:"size:100;not null"`
	NomeIdentificacao   string `gorm:"size:255"`
	Descricao           string `gorm:"type:text"`
	DataConstrucao      string `gorm:"size:20"`
	TipoCobertura       string `gorm:"size:100"`
	CapacidadeToneladas *float64
	Largura             *float64
	Comprimento         *float64
	Altura              *float64
	Verticalizacao      string `gorm:"size:50"`

	Empilhadeiras []Empilhadeira          `gorm:"foreignKey:InstalacaoID"`
	Sistemas      []SistemaSeguranca      `gorm:"foreignKey:InstalacaoID"`
	Equipamentos  []EquipamentoUnitizacao `gorm:"foreignKey:InstalacaoID"`
}

func (Instalacao) TableName() string { return "instalacoes" }

// IsDeposito indica se a instalação comporta subitens de depósito
// (empilhadeiras, sistemas de segurança, equipamentos de unitização).
func (i *Instalacao) IsDeposito() bool {
	return strings.Contains(strings.ToLower(i.TipoInstalacao), "deposit")
}

type SituacaoEmpilhadeira string

const (
	EmpilhadeiraDisponivel   SituacaoEmpilhadeira = "disponivel"
	EmpilhadeiraRecuperavel  SituacaoEmpilhadeira = "indisponivel_recuperavel"
	EmpilhadeiraIndisponivel SituacaoEmpilhadeira = "indisponivel"
)

func CoerceSituacaoEmpilhadeira(s string) SituacaoEmpilhadeira {
	switch SituacaoEmpilhadeira(strings.TrimSpace(s)) {
	case EmpilhadeiraDisponivel, EmpilhadeiraRecuperavel, EmpilhadeiraIndisponivel:
		return SituacaoEmpilhadeira(strings.TrimSpace(s))
	default:
		return EmpilhadeiraDisponivel
	}
}

type Empilhadeira struct {
	gorm.Model
	InstalacaoID     uint                 `gorm:"not null;index"`
	Tipo             string               `gorm:"size:100;not null"`
	Capacidade       *float64
	Quantidade       *int
	AnoFabricacao    *int
	Situacao         SituacaoEmpilhadeira `gorm:"type:varchar(30);not null"`
	ValorRecuperacao *float64
}

func (Empilhadeira) TableName() string { return "empilhadeiras" }

// Vocabulário comum a sistemas de segurança e equipamentos de unitização.
type SituacaoEquipamento string

const (
	EquipamentoOperacional SituacaoEquipamento = "operacional"
	EquipamentoInoperante  SituacaoEquipamento = "inoperante"
	EquipamentoManutencao  SituacaoEquipamento = "em_manutencao"
)

func CoerceSituacaoEquipamento(s string) SituacaoEquipamento {
	switch SituacaoEquipamento(strings.TrimSpace(s)) {
	case EquipamentoOperacional, EquipamentoInoperante, EquipamentoManutencao:
		return SituacaoEquipamento(strings.TrimSpace(s))
	default:
		return EquipamentoOperacional
	}
}

type SistemaSeguranca struct {
	gorm.Model
	InstalacaoID      uint                `gorm:"not null;index"`
	Tipo              string              `gorm:"size:100;not null"`
	Descricao         string              `gorm:"type:text"`
	Situacao          SituacaoEquipamento `gorm:"type:varchar(30)"`
	UltimaManutencao  string              `gorm:"size:20"`
	ProximaManutencao string              `gorm:"size:20"`
}

func (SistemaSeguranca) TableName() string { return "sistemas_seguranca" }

type EquipamentoUnitizacao struct {
	gorm.Model
	InstalacaoID uint                `gorm:"not null;index"`
	Tipo         string              `gorm:"size:100;not null"`
	Quantidade   *int
	CapacidadeKg *float64
	Situacao     SituacaoEquipamento `gorm:"type:varchar(30)"`
	Observacoes  string              `gorm:"type:text"`
}

func (EquipamentoUnitizacao) TableName() string { return "equipamentos_unitizacao" }
