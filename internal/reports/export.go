package reports

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// linha do relatório gerencial consolidado por órgão.
type relatorioRow struct {
	ID                           uint
	Nome                         string
	Sigla                        string
	Subordinacao                 string
	UnidadeGestora               string
	Codom                        string
	EfetivoAtendimento           int
	CapacidadeTotalToneladas     float64
	CapacidadeTotalToneladasSeco float64
	ConsumoSecosMensal           float64
	ConsumoFrigorificadosMensal  float64
	ViaturasCapKg                float64
	ViaturasQtd                  int
	PessoalTotal                 int
	EmpilhadeirasQtd             int
	DataCadastro                 string
}

// csvField limpa um valor para o CSV delimitado por vírgula: vírgulas
// no conteúdo viram espaços.
func csvField(v any) string {
	return strings.ReplaceAll(fmt.Sprint(v), ",", " ")
}

// RelatorioCSV monta o relatório gerencial dos órgãos provedores em
// CSV, uma linha de cabeçalho e uma por órgão.
func RelatorioCSV(db *gorm.DB) (string, error) {
	var rows []relatorioRow
	err := db.Raw(`
		SELECT o.id, o.nome, o.sigla, o.subordinacao, o.unidade_gestora, o.codom,
		       o.efetivo_atendimento, o.capacidade_total_toneladas, o.capacidade_total_toneladas_seco,
		       o.consumo_secos_mensal, o.consumo_frigorificados_mensal,
		       COALESCE(v.cap_total,0) AS viaturas_cap_kg,
		       COALESCE(v.qtd,0) AS viaturas_qtd,
		       COALESCE(p.total,0) AS pessoal_total,
		       COALESCE(e.emp_total,0) AS empilhadeiras_qtd,
		       o.created_at AS data_cadastro
		FROM orgao_provedor o
		LEFT JOIN (
			SELECT orgao_provedor_id, COUNT(*) AS qtd, COALESCE(SUM(capacidade_carga_kg),0) AS cap_total
			FROM viaturas GROUP BY orgao_provedor_id
		) v ON v.orgao_provedor_id = o.id
		LEFT JOIN (
			SELECT orgao_provedor_id, COALESCE(SUM(quantidade),0) AS total
			FROM pessoal GROUP BY orgao_provedor_id
		) p ON p.orgao_provedor_id = o.id
		LEFT JOIN (
			SELECT i.orgao_provedor_id, COUNT(e.id) AS emp_total
			FROM empilhadeiras e
			JOIN instalacoes i ON i.id = e.instalacao_id
			GROUP BY i.orgao_provedor_id
		) e ON e.orgao_provedor_id = o.id
		ORDER BY o.nome`).Scan(&rows).Error
	if err != nil {
		return "", fmt.Errorf("consultando relatório: %w", err)
	}

	header := []string{
		"id", "nome", "sigla", "subordinacao", "unidade_gestora", "codom", "efetivo_atendimento",
		"capacidade_total_toneladas", "capacidade_total_toneladas_seco",
		"consumo_secos_mensal", "consumo_frigorificados_mensal",
		"viaturas_capacidade_kg", "viaturas_qtd", "pessoal_total", "empilhadeiras_qtd", "data_cadastro",
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		fields := []string{
			csvField(r.ID), csvField(r.Nome), csvField(r.Sigla), csvField(r.Subordinacao),
			csvField(r.UnidadeGestora), csvField(r.Codom), csvField(r.EfetivoAtendimento),
			csvField(r.CapacidadeTotalToneladas), csvField(r.CapacidadeTotalToneladasSeco),
			csvField(r.ConsumoSecosMensal), csvField(r.ConsumoFrigorificadosMensal),
			csvField(r.ViaturasCapKg), csvField(r.ViaturasQtd), csvField(r.PessoalTotal),
			csvField(r.EmpilhadeirasQtd), csvField(r.DataCadastro),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
