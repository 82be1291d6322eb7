package forms

import (
	"strings"

	"opregistro/internal/models"
)

// OrgaoForm reúne os campos escalares do Órgão Provedor no formulário
// de cadastro/edição. Os numéricos ficam como texto até a coerção.
type OrgaoForm struct {
	Nome           string `form:"nome" json:"nome"`
	Sigla          string `form:"sigla" json:"sigla"`
	UnidadeGestora string `form:"unidade_gestora" json:"unidade_gestora"`
	Codom          string `form:"codom" json:"codom"`
	OMLicitacaoQS  string `form:"om_licitacao_qs" json:"om_licitacao_qs"`
	OMLicitacaoQR  string `form:"om_licitacao_qr" json:"om_licitacao_qr"`
	Subordinacao   string `form:"subordinacao" json:"subordinacao"`
	Efetivo        string `form:"efetivo" json:"efetivo"`
	DataCriacao    string `form:"data_criacao" json:"data_criacao"`
	Missao         string `form:"missao" json:"missao"`

	ConsumoSecos             string `form:"consumo_secos" json:"consumo_secos"`
	ConsumoFrigorificados    string `form:"consumo_frigorificados" json:"consumo_frigorificados"`
	SuprimentoSecos          string `form:"suprimento_secos" json:"suprimento_secos"`
	SuprimentoFrigorificados string `form:"suprimento_frigorificados" json:"suprimento_frigorificados"`
	AreaEdificavel           string `form:"area_edificavel" json:"area_edificavel"`
	CapacidadeTotal          string `form:"capacidade_total_toneladas" json:"capacidade_total_toneladas"`
	CapacidadeTotalSeco      string `form:"capacidade_total_toneladas_seco" json:"capacidade_total_toneladas_seco"`

	ClassesProvedor []string `form:"classes_provedor" json:"classes_provedor"`
	OMsQueApoia     []string `form:"oms_que_apoia[]" json:"oms_que_apoia"`
}

func (f *OrgaoForm) NomeLimpo() string {
	return strings.Join(strings.Fields(f.Nome), " ")
}

func (f *OrgaoForm) SiglaLimpa() string {
	return strings.ToUpper(strings.TrimSpace(f.Sigla))
}

// ApoiaClasseI detecta se o órgão declarou prover a Classe I
// (subsistência). Sem Classe I, efetivo e consumos são zerados.
func (f *OrgaoForm) ApoiaClasseI() bool {
	for _, c := range f.ClassesProvedor {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "classe i", "classe_i", "i":
			return true
		}
	}
	return false
}

func (f *OrgaoForm) Classes() string {
	parts := make([]string, 0, len(f.ClassesProvedor))
	for _, c := range f.ClassesProvedor {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ", ")
}

// Historico consolida a lista de OMs apoiadas; um único item com
// vírgulas é tratado como lista serializada.
func (f *OrgaoForm) Historico() string {
	oms := f.OMsQueApoia
	if len(oms) == 1 && strings.Contains(oms[0], ",") {
		split := strings.Split(oms[0], ",")
		oms = oms[:0]
		for _, s := range split {
			if s = strings.TrimSpace(s); s != "" {
				oms = append(oms, s)
			}
		}
	}
	return strings.Join(oms, ", ")
}

// Apply grava o formulário sobre um registro. Campos numéricos
// ausentes ou ilegíveis preservam o valor já armazenado — num registro
// novo isso equivale a zero. A regra da Classe I zera efetivo e
// consumos por último, prevalecendo sobre o que foi digitado.
func (f *OrgaoForm) Apply(o *models.OrgaoProvedor) {
	o.Nome = f.NomeLimpo()
	o.Sigla = f.SiglaLimpa()
	o.UnidadeGestora = strings.TrimSpace(f.UnidadeGestora)
	o.Codom = strings.TrimSpace(f.Codom)
	o.OMLicitacaoQS = strings.TrimSpace(f.OMLicitacaoQS)
	o.OMLicitacaoQR = strings.TrimSpace(f.OMLicitacaoQR)
	o.Subordinacao = strings.TrimSpace(f.Subordinacao)
	o.DataCriacao = strings.TrimSpace(f.DataCriacao)
	o.Missao = strings.TrimSpace(f.Missao)
	o.Historico = f.Historico()
	o.ClassesProvedor = f.Classes()

	if v := ToInt(f.Efetivo); v != nil {
		o.EfetivoAtendimento = *v
	}
	if v := ToFloat(f.ConsumoSecos); v != nil {
		o.ConsumoSecosMensal = *v
	}
	if v := ToFloat(f.ConsumoFrigorificados); v != nil {
		o.ConsumoFrigorificadosMensal = *v
	}
	if v := ToFloat(f.SuprimentoSecos); v != nil {
		o.SuprimentoSecosMensal = *v
	}
	if v := ToFloat(f.SuprimentoFrigorificados); v != nil {
		o.SuprimentoFrigorificadosMensal = *v
	}
	if v := ToFloat(f.AreaEdificavel); v != nil {
		o.AreaEdificavelDisponivel = *v
	}
	if v := ToFloat(f.CapacidadeTotal); v != nil {
		o.CapacidadeTotalToneladas = *v
	}
	if v := ToFloat(f.CapacidadeTotalSeco); v != nil {
		o.CapacidadeTotalToneladasSeco = *v
	}

	if !f.ApoiaClasseI() {
		o.EfetivoAtendimento = 0
		o.ConsumoSecosMensal = 0
		o.ConsumoFrigorificadosMensal = 0
		o.SuprimentoSecosMensal = 0
		o.SuprimentoFrigorificadosMensal = 0
	}
}
