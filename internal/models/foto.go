package models

import "gorm.io/gorm"

// Origens válidas para Foto.TabelaOrigem.
const (
	OrigemInstalacao            = "instalacao"
	OrigemEmpilhadeira          = "empilhadeira"
	OrigemSistemaSeguranca      = "sistema_seguranca"
	OrigemEquipamentoUnitizacao = "equipamento_unitizacao"
	OrigemGerador               = "gerador"
	OrigemViatura               = "viatura"
	OrigemAreaEdificavel        = "area_edificavel"
)

// Foto é um anexo polimórfico: o par (TabelaOrigem, RegistroID) aponta
// para a linha dona. Excluir a linha dona exclui a foto e o arquivo.
type Foto struct {
	gorm.Model
	TabelaOrigem   string `gorm:"size:50;not null;index:idx_fotos_origem"`
	RegistroID     uint   `gorm:"not null;index:idx_fotos_origem"`
	CaminhoArquivo string `gorm:"size:500;not null"` // relativo ao diretório de uploads, separador '/'
	TipoFoto       string `gorm:"size:50"`
	Descricao      string `gorm:"type:text"`
}

func (Foto) TableName() string { return "fotos" }
