package models

import (
	"strings"

	"gorm.io/gorm"
)

type SituacaoGerador string

const (
	GeradorOperacional SituacaoGerador = "operacional"
	GeradorManutencao  SituacaoGerador = "em_manutencao"
	GeradorBaixada     SituacaoGerador = "baixada"
)

func CoerceSituacaoGerador(s string) SituacaoGerador {
	switch SituacaoGerador(strings.TrimSpace(s)) {
	case GeradorOperacional, GeradorManutencao, GeradorBaixada:
		return SituacaoGerador(strings.TrimSpace(s))
	default:
		return GeradorOperacional
	}
}

type Gerador struct {
	gorm.Model
	OrgaoProvedorID        uint            `gorm:"not null;index"`
	CapacidadeKva          float64         `gorm:"not null"`
	MarcaModelo            string          `gorm:"size:150"`
	AnoFabricacao          *int
	Situacao               SituacaoGerador `gorm:"type:varchar(30);not null"`
	ValorRecuperacao       *float64
	PodeOperar24h          bool            `gorm:"not null;default:false"`
	HorasOperacaoContinuas *int
	UltimaManutencao       string          `gorm:"size:20"`
	ProximaManutencao      string          `gorm:"size:20"`
	Observacoes            string          `gorm:"type:text"`
}

func (Gerador) TableName() string { return "geradores" }

type DimensionamentoEnergia string

const (
	EnergiaAdequado     DimensionamentoEnergia = "adequado"
	EnergiaInsuficiente DimensionamentoEnergia = "insuficiente"
	EnergiaPrecario     DimensionamentoEnergia = "precario"
)

func CoerceDimensionamento(s string) DimensionamentoEnergia {
	switch DimensionamentoEnergia(strings.TrimSpace(s)) {
	case EnergiaAdequado, EnergiaInsuficiente, EnergiaPrecario:
		return DimensionamentoEnergia(strings.TrimSpace(s))
	default:
		return EnergiaAdequado
	}
}

// EnergiaEletrica guarda no máximo um registro por órgão; o fluxo de
// gravação sempre remove o anterior antes de inserir o novo.
type EnergiaEletrica struct {
	gorm.Model
	OrgaoProvedorID    uint                   `gorm:"not null;index"`
	Dimensionamento    DimensionamentoEnergia `gorm:"column:dimensionamento_adequado;type:varchar(20);not null"`
	CapacidadeTotalKva float64
	Observacoes        string                 `gorm:"column:observacoes_energia;type:text"`
}

func (EnergiaEletrica) TableName() string { return "energia_eletrica" }
