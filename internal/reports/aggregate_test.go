package reports_test

import (
	"strings"
	"testing"

	"opregistro/internal/database"
	"opregistro/internal/models"
	"opregistro/internal/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestFrigoDeficit(t *testing.T) {
	orgaos := []models.OrgaoProvedor{
		{Model: gorm.Model{ID: 1}, Sigla: "1º D SUP", CapacidadeTotalToneladasSeco: 10, ConsumoFrigorificadosMensal: 5},  // cobertura 2.0
		{Model: gorm.Model{ID: 2}, Sigla: "2º B SUP", CapacidadeTotalToneladasSeco: 40, ConsumoFrigorificadosMensal: 5},  // cobertura 8.0 — fora
		{Model: gorm.Model{ID: 3}, Sigla: "4º D SUP", CapacidadeTotalToneladasSeco: 2, ConsumoFrigorificadosMensal: 4},   // cobertura 0.5
		{Model: gorm.Model{ID: 4}, Sigla: "DSSM", CapacidadeTotalToneladasSeco: 0, ConsumoFrigorificadosMensal: 0},       // sem consumo — fora
		{Model: gorm.Model{ID: 5}, Sigla: "DSSA", CapacidadeTotalToneladasSeco: 12, ConsumoFrigorificadosMensal: 4,       // cobertura 3.0
			AreaEdificavelDisponivel: 2500},
	}

	items := reports.FrigoDeficit(orgaos)
	require.Len(t, items, 3)

	// ordenado do pior para o melhor
	assert.Equal(t, "4º D SUP", items[0].Sigla)
	assert.InDelta(t, 0.5, items[0].Cobertura, 1e-9)
	assert.Equal(t, "1º D SUP", items[1].Sigla)
	assert.Equal(t, "DSSA", items[2].Sigla)

	assert.False(t, items[0].TemArea)
	assert.True(t, items[2].TemArea)

	for _, it := range items {
		assert.NotEqual(t, uint(4), it.OrgaoID, "órgão sem consumo declarado não entra no ranking")
		assert.Less(t, it.Cobertura, 4.0)
	}
}

func TestFrigoDeficitVazio(t *testing.T) {
	assert.Empty(t, reports.FrigoDeficit(nil))
	assert.Empty(t, reports.FrigoDeficit([]models.OrgaoProvedor{
		{Sigla: "X", ConsumoFrigorificadosMensal: 0},
	}))
}

func TestBuildAnaliticos(t *testing.T) {
	db := testDB(t)

	orgao := models.OrgaoProvedor{Nome: "4º DEPÓSITO DE SUPRIMENTO", Sigla: "4º D SUP", Subordinacao: "3ª RM"}
	require.NoError(t, db.Create(&orgao).Error)

	dep := models.Instalacao{OrgaoProvedorID: orgao.ID, TipoInstalacao: "deposito_cl1", Verticalizacao: "verticalizado"}
	require.NoError(t, db.Create(&dep).Error)
	dep2 := models.Instalacao{OrgaoProvedorID: orgao.ID, TipoInstalacao: "deposito_cl1", Verticalizacao: "nao_verticalizado"}
	require.NoError(t, db.Create(&dep2).Error)
	require.NoError(t, db.Create(&models.SistemaSeguranca{
		InstalacaoID: dep.ID, Tipo: "CFTV", Situacao: models.EquipamentoOperacional,
	}).Error)

	frigo := models.Viatura{OrgaoProvedorID: orgao.ID, Categoria: "operacional",
		TipoVeiculo: "vte_bau", Especializacao: "Baú Frigorífico", Placa: "FRG0001",
		Situacao: models.ViaturaOperacional}
	require.NoError(t, db.Create(&frigo).Error)
	seco := models.Viatura{OrgaoProvedorID: orgao.ID, Categoria: "operacional",
		TipoVeiculo: "vte_bau", Especializacao: "Baú Seco", Placa: "SEC0001",
		Situacao: models.ViaturaManutencao}
	require.NoError(t, db.Create(&seco).Error)

	a := reports.BuildAnaliticos(db, []models.OrgaoProvedor{orgao})

	assert.Equal(t, 2, a.Instalacoes[orgao.ID])
	assert.Equal(t, 1, a.Sistemas[orgao.ID])

	bau := a.ViaturasBau[orgao.ID]
	assert.Equal(t, 1, bau.BauFrigo.Total)
	assert.Equal(t, 1, bau.BauFrigo.Operacional)
	assert.Equal(t, 1, bau.BauSeco.Total)
	assert.Equal(t, 1, bau.BauSeco.Manutencao)

	sd := a.SistemasDepositos[orgao.ID]
	assert.Equal(t, 2, sd.DepositosTotal)
	assert.Equal(t, 1, sd.DepositosComSistema)
	assert.Equal(t, 1, sd.DepositosSemSistema)

	require.Len(t, a.Verticalizacao, 1)
	v := a.Verticalizacao[0]
	assert.Equal(t, "CL1", v.CL)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 1, v.Verticalizado)
	assert.InDelta(t, 50.0, v.Perc, 1e-9)
}

func TestRelatorioCSV(t *testing.T) {
	db := testDB(t)

	orgao := models.OrgaoProvedor{
		Nome: "DEPÓSITO, DE TESTE", Sigla: "D TST", Subordinacao: "1ª RM",
		ConsumoSecosMensal: 12.5,
	}
	require.NoError(t, db.Create(&orgao).Error)
	cap := 3500.0
	require.NoError(t, db.Create(&models.Viatura{
		OrgaoProvedorID: orgao.ID, Categoria: "operacional", TipoVeiculo: "vte_bau",
		Placa: "CSV0001", CapacidadeCargaKg: &cap, Situacao: models.ViaturaOperacional,
	}).Error)

	csv, err := reports.RelatorioCSV(db)
	require.NoError(t, err)

	linhas := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, linhas, 2)
	assert.True(t, strings.HasPrefix(linhas[0], "id,nome,sigla,subordinacao"))

	// vírgulas do conteúdo viram espaços para não quebrar o delimitador
	assert.Contains(t, linhas[1], "DEPÓSITO  DE TESTE")
	assert.NotContains(t, linhas[1], "DEPÓSITO, DE TESTE")
	assert.Contains(t, linhas[1], "3500")
}
