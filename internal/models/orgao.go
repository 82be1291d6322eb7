package models

import "gorm.io/gorm"

// OrgaoProvedor é a entidade raiz do cadastro. Todos os registros
// dependentes (instalações, viaturas, geradores, pessoal, energia)
// pertencem a exatamente um órgão e caem junto com ele na exclusão.
type OrgaoProvedor struct {
	gorm.Model
	Nome           string `gorm:"size:255;not null;uniqueIndex"`
	Sigla          string `gorm:"size:50;not null;uniqueIndex"`
	UnidadeGestora string `gorm:"size:50"`
	Codom          string `gorm:"size:50"`
	OMLicitacaoQS  string `gorm:"size:255"`
	OMLicitacaoQR  string `gorm:"size:255"`
	Subordinacao   string `gorm:"size:255;not null"`

	// Efetivo e figuras de consumo/suprimento só se aplicam quando o
	// órgão provê Classe I; caso contrário são gravadas como zero.
	EfetivoAtendimento int `gorm:"not null;default:0"`

	DataCriacao string `gorm:"size:20"` // data de criação da OM (histórica, texto livre ISO)
	Historico   string `gorm:"type:text"`
	Missao      string `gorm:"type:text"`

	ConsumoSecosMensal             float64
	ConsumoFrigorificadosMensal    float64
	SuprimentoSecosMensal          float64
	SuprimentoFrigorificadosMensal float64
	AreaEdificavelDisponivel       float64
	CapacidadeTotalToneladas       float64
	CapacidadeTotalToneladasSeco   float64

	ClassesProvedor string `gorm:"size:255"` // lista separada por vírgula, ex.: "Classe I, Classe III"
	CriadoPor       uint

	Instalacoes []Instalacao      `gorm:"foreignKey:OrgaoProvedorID"`
	Viaturas    []Viatura         `gorm:"foreignKey:OrgaoProvedorID"`
	Geradores   []Gerador         `gorm:"foreignKey:OrgaoProvedorID"`
	Energia     []EnergiaEletrica `gorm:"foreignKey:OrgaoProvedorID"`
	Pessoal     []Pessoal         `gorm:"foreignKey:OrgaoProvedorID"`
}

func (OrgaoProvedor) TableName() string { return "orgao_provedor" }
