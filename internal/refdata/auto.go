package refdata

// Fatores de planejamento logístico (t/homem/dia) aplicados sobre um
// ciclo de 22 dias úteis para estimar o suprimento mensal.
const (
	fatorFrigorificados = 0.0004
	fatorSecos          = 0.00055
	diasCiclo           = 22
)

type OMDetalhe struct {
	OMVinculada
	UnidadeInfo
}

// DadosAutomaticos é a resposta pré-calculada para preenchimento
// automático do cadastro de um Órgão Provedor.
type DadosAutomaticos struct {
	OMsApoiadas   []string       `json:"oms_apoiadas"`
	OMsDetalhes   []OMDetalhe    `json:"oms_detalhes"`
	EfetivoTotal  int            `json:"efetivo_total"`
	EfetivosPorOM map[string]int `json:"efetivos_por_om"`
	Subordinacao  string         `json:"subordinacao"`

	SuprimentoSecosEstimado          float64 `json:"suprimento_secos_estimado"`
	SuprimentoFrigorificadosEstimado float64 `json:"suprimento_frigorificados_estimado"`
}

// SuprimentoEstimado calcula as toneladas mensais de secos e
// frigorificados para um efetivo apoiado.
func SuprimentoEstimado(efetivo int) (secos, frigorificados float64) {
	return float64(efetivo) * fatorSecos * diasCiclo,
		float64(efetivo) * fatorFrigorificados * diasCiclo
}

// DadosAutomaticosOP consolida, a partir das planilhas, as OMs apoiadas
// por um Órgão Provedor, o efetivo total atendido e a subordinação.
func (ds *Dataset) DadosAutomaticosOP(siglaOP string) DadosAutomaticos {
	out := DadosAutomaticos{
		OMsApoiadas:   []string{},
		OMsDetalhes:   []OMDetalhe{},
		EfetivosPorOM: map[string]int{},
	}
	alvo := Normalize(siglaOP)
	if alvo == "" {
		return out
	}

	for _, om := range ds.OMsApoiadas(siglaOP) {
		if om.Sigla == "" {
			continue
		}
		out.OMsApoiadas = append(out.OMsApoiadas, om.Sigla)

		chaveOM := Normalize(om.Sigla)
		if efetivo, ok := ds.EfetivoOM[chaveOM]; ok {
			out.EfetivosPorOM[om.Sigla] = efetivo
			out.EfetivoTotal += efetivo
		}

		det := OMDetalhe{OMVinculada: om}
		if info, ok := ds.UGCodom[om.Sigla]; ok {
			det.UnidadeInfo = info
		} else {
			det.UnidadeInfo = ds.UGCodomFor(om.Sigla)
		}
		out.OMsDetalhes = append(out.OMsDetalhes, det)
	}

	info := ds.UGCodomFor(siglaOP)
	out.Subordinacao = info.Subordinacao
	if out.Subordinacao == "" {
		out.Subordinacao = ds.RMPorOP[alvo]
	}

	out.SuprimentoSecosEstimado, out.SuprimentoFrigorificadosEstimado = SuprimentoEstimado(out.EfetivoTotal)
	return out
}
