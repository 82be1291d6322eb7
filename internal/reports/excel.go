package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func writeSheet(sheet string, header []string, linhas [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheet)

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, err
	}
	for i, linha := range linhas {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &linha); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// RelatorioViaturasExcel monta a planilha com os dados principais de
// todas as viaturas, ordenadas por órgão, tipo e placa.
func RelatorioViaturasExcel(db *gorm.DB) (*excelize.File, error) {
	var rows []struct {
		ID                uint
		OrgaoNome         string
		OrgaoSigla        string
		Categoria         string
		TipoVeiculo       string
		Especializacao    string
		Placa             string
		Marca             string
		Modelo            string
		AnoFabricacao     *int
		CapacidadeCargaKg *float64
		LotacaoPessoas    *int
		TipoRefrigeracao  string
		TemperaturaMin    *float64
		TemperaturaMax    *float64
		Situacao          string
		KmAtual           *int
		UltimaManutencao  string
		ProximaManutencao string
		ValorRecuperacao  *float64
		Patrimonio        string
		NumeroInventario  string
		Observacoes       string
	}
	err := db.Raw(`
		SELECT v.id, o.nome AS orgao_nome, o.sigla AS orgao_sigla,
		       v.categoria, v.tipo_veiculo, v.especializacao, v.placa,
		       v.marca, v.modelo, v.ano_fabricacao, v.capacidade_carga_kg,
		       v.lotacao_pessoas, v.tipo_refrigeracao, v.temperatura_min, v.temperatura_max,
		       v.situacao, v.km_atual, v.ultima_manutencao, v.proxima_manutencao,
		       v.valor_recuperacao, v.patrimonio, v.numero_inventario, v.observacoes
		FROM viaturas v
		JOIN orgao_provedor o ON o.id = v.orgao_provedor_id
		ORDER BY o.nome, v.tipo_veiculo, v.placa`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("consultando viaturas: %w", err)
	}

	header := []string{
		"id", "orgao_nome", "orgao_sigla", "categoria", "tipo_veiculo", "especializacao",
		"placa", "marca", "modelo", "ano_fabricacao", "capacidade_carga_kg", "lotacao_pessoas",
		"tipo_refrigeracao", "temperatura_min", "temperatura_max", "situacao", "km_atual",
		"ultima_manutencao", "proxima_manutencao", "valor_recuperacao", "patrimonio",
		"numero_inventario", "observacoes",
	}
	linhas := make([][]any, 0, len(rows))
	for _, r := range rows {
		linhas = append(linhas, []any{
			r.ID, r.OrgaoNome, r.OrgaoSigla, r.Categoria, r.TipoVeiculo, r.Especializacao,
			r.Placa, r.Marca, r.Modelo, derefInt(r.AnoFabricacao), derefFloat(r.CapacidadeCargaKg),
			derefInt(r.LotacaoPessoas), r.TipoRefrigeracao, derefFloat(r.TemperaturaMin),
			derefFloat(r.TemperaturaMax), r.Situacao, derefInt(r.KmAtual),
			r.UltimaManutencao, r.ProximaManutencao, derefFloat(r.ValorRecuperacao),
			r.Patrimonio, r.NumeroInventario, r.Observacoes,
		})
	}
	return writeSheet("Viaturas", header, linhas)
}

// RelatorioEmpilhadeirasExcel monta a planilha das empilhadeiras com a
// instalação e o órgão a que pertencem.
func RelatorioEmpilhadeirasExcel(db *gorm.DB) (*excelize.File, error) {
	var rows []struct {
		ID                  uint
		OrgaoNome           string
		OrgaoSigla          string
		TipoInstalacao      string
		InstalacaoDescricao string
		Tipo                string
		Capacidade          *float64
		Quantidade          *int
		AnoFabricacao       *int
		Situacao            string
		ValorRecuperacao    *float64
	}
	err := db.Raw(`
		SELECT e.id, o.nome AS orgao_nome, o.sigla AS orgao_sigla,
		       i.tipo_instalacao, i.descricao AS instalacao_descricao,
		       e.tipo, e.capacidade, e.quantidade, e.ano_fabricacao,
		       e.situacao, e.valor_recuperacao
		FROM empilhadeiras e
		JOIN instalacoes i ON i.id = e.instalacao_id
		JOIN orgao_provedor o ON o.id = i.orgao_provedor_id
		ORDER BY o.nome, i.tipo_instalacao, e.tipo`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("consultando empilhadeiras: %w", err)
	}

	header := []string{
		"id", "orgao_nome", "orgao_sigla", "tipo_instalacao", "instalacao_descricao",
		"tipo", "capacidade", "quantidade", "ano_fabricacao", "situacao", "valor_recuperacao",
	}
	linhas := make([][]any, 0, len(rows))
	for _, r := range rows {
		linhas = append(linhas, []any{
			r.ID, r.OrgaoNome, r.OrgaoSigla, r.TipoInstalacao, r.InstalacaoDescricao,
			r.Tipo, derefFloat(r.Capacidade), derefInt(r.Quantidade), derefInt(r.AnoFabricacao),
			r.Situacao, derefFloat(r.ValorRecuperacao),
		})
	}
	return writeSheet("Empilhadeiras", header, linhas)
}

func derefInt(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func derefFloat(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}
