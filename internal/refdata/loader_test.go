package refdata_test

import (
	"path/filepath"
	"testing"

	"opregistro/internal/refdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// escreve as duas planilhas de referência num diretório temporário.
func writeWorkbooks(t *testing.T, dir string) {
	t.Helper()

	codom := excelize.NewFile()
	sheet := codom.GetSheetName(0)
	rows := [][]any{
		{"SIGLA", "CODOM", "UG", "SUBORDINAÇÃO"},
		{"2º B SUP", "012345", "160001", "3ª RM"},
		{"35º BI", "054321", "160002", "3ª RM"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, codom.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, codom.SaveAs(filepath.Join(dir, "CODOM.xlsx")))

	dados := excelize.NewFile()
	_, err := dados.NewSheet("Vinculo_OM")
	require.NoError(t, err)
	vinc := [][]any{
		{"SIGLA OM", "COD OM", "COD UG", "SIGLA OM VINC OP", "COD OM VINC OP", "COD UG VINC OP", "RM"},
		{"35º BI", "054321", "160002", "2º B SUP", "012345", "160001", "3ª RM"},
		{"19º RC MEC", "067890", "160003", "2º B SUP", "012345", "160001", "3ª RM"},
	}
	for i, row := range vinc {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, dados.SetSheetRow("Vinculo_OM", cell, &row))
	}
	_, err = dados.NewSheet("Efetivo")
	require.NoError(t, err)
	efet := [][]any{
		{"SIGLA OM", "MEDIA EFETIVO ATIVA"},
		{"35º BI", "612,4"},
		{"19º RC MEC", "438"},
	}
	for i, row := range efet {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, dados.SetSheetRow("Efetivo", cell, &row))
	}
	require.NoError(t, dados.SaveAs(filepath.Join(dir, "Dados.xlsx")))
}

func TestLoadPlanilhas(t *testing.T) {
	dir := t.TempDir()
	writeWorkbooks(t, dir)

	ds := refdata.Load(dir)

	info := ds.UGCodomFor("2º B SUP")
	assert.Equal(t, "012345", info.Codom)
	assert.Equal(t, "160001", info.UG)
	assert.Equal(t, "3ª RM", info.Subordinacao)

	// grafia alternativa resolve para a mesma OM
	assert.Equal(t, "012345", ds.UGCodomFor("2o b sup").Codom)

	assert.Equal(t, "3ª RM", ds.SubordinacaoByCodom("012345"))
	assert.Empty(t, ds.SubordinacaoByCodom("999999"))

	oms := ds.OMsApoiadas("2º B SUP")
	require.Len(t, oms, 2)
	assert.Equal(t, "35º BI", oms[0].Sigla)
}

func TestLoadDiretorioInexistente(t *testing.T) {
	ds := refdata.Load(filepath.Join(t.TempDir(), "nao_existe"))

	// sem planilhas as buscas devolvem vazio, nunca pânico
	assert.Empty(t, ds.UGCodomFor("2º B SUP").Codom)
	assert.Empty(t, ds.OMsApoiadas("2º B SUP"))
	assert.Empty(t, ds.SubordinacaoByCodom("012345"))
}

func TestDadosAutomaticosOP(t *testing.T) {
	dir := t.TempDir()
	writeWorkbooks(t, dir)
	ds := refdata.Load(dir)

	out := ds.DadosAutomaticosOP("2º B SUP")
	assert.ElementsMatch(t, []string{"35º BI", "19º RC MEC"}, out.OMsApoiadas)
	assert.Equal(t, 612+438, out.EfetivoTotal)
	assert.Equal(t, "3ª RM", out.Subordinacao)
	assert.InDelta(t, float64(1050)*0.00055*22, out.SuprimentoSecosEstimado, 1e-9)
	assert.InDelta(t, float64(1050)*0.0004*22, out.SuprimentoFrigorificadosEstimado, 1e-9)
}

func TestDadosAutomaticosSiglaVazia(t *testing.T) {
	ds := refdata.Load(t.TempDir())
	out := ds.DadosAutomaticosOP("")
	assert.Empty(t, out.OMsApoiadas)
	assert.Zero(t, out.EfetivoTotal)
	assert.Zero(t, out.SuprimentoSecosEstimado)
}

func TestSuprimentoEstimado(t *testing.T) {
	secos, frigo := refdata.SuprimentoEstimado(1000)
	assert.InDelta(t, 12.1, secos, 1e-9)
	assert.InDelta(t, 8.8, frigo, 1e-9)

	secos, frigo = refdata.SuprimentoEstimado(0)
	assert.Zero(t, secos)
	assert.Zero(t, frigo)
}
