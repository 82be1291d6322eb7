package models

import (
	"strings"

	"gorm.io/gorm"
)

type SituacaoViatura string

const (
	ViaturaOperacional SituacaoViatura = "operacional"
	ViaturaInoperante  SituacaoViatura = "inoperante"
	ViaturaManutencao  SituacaoViatura = "em_manutencao"
	ViaturaBaixada     SituacaoViatura = "baixada"
)

func CoerceSituacaoViatura(s string) SituacaoViatura {
	switch SituacaoViatura(strings.TrimSpace(s)) {
	case ViaturaOperacional, ViaturaInoperante, ViaturaManutencao, ViaturaBaixada:
		return SituacaoViatura(strings.TrimSpace(s))
	default:
		return ViaturaOperacional
	}
}

type Viatura struct {
	gorm.Model
	OrgaoProvedorID   uint            `gorm:"not null;index"`
	Categoria         string          `gorm:"size:100;not null"`
	TipoVeiculo       string          `gorm:"size:100;not null"` // tipos de transporte especializado começam com "vte"
	Especializacao    string          `gorm:"size:100"`          // ex.: "Baú Frigorífico", "Baú Seco"
	Placa             string          `gorm:"size:30;not null;uniqueIndex"`
	Marca             string          `gorm:"size:100"`
	Modelo            string          `gorm:"size:100"`
	AnoFabricacao     *int
	CapacidadeCargaKg *float64
	LotacaoPessoas    *int
	ValorRecuperacao  *float64
	TipoRefrigeracao  string          `gorm:"size:100"`
	TemperaturaMin    *float64
	TemperaturaMax    *float64
	Situacao          SituacaoViatura `gorm:"type:varchar(30);not null"`
	UltimaManutencao  string          `gorm:"size:20"`
	ProximaManutencao string          `gorm:"size:20"`
	KmAtual           *int
	NumeroInventario  string          `gorm:"size:100"`
	Patrimonio        string          `gorm:"size:100"`
	Observacoes       string          `gorm:"type:text"`
}

func (Viatura) TableName() string { return "viaturas" }
