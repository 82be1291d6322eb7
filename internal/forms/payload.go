package forms

import (
	"encoding/json"
	"fmt"
	"strings"

	"opregistro/internal/models"
)

// Os blocos de entidades filhas chegam como arrays JSON em campos do
// formulário (um array por tipo de entidade). Os campos numéricos vêm
// como texto para permitir a coerção local (vírgula decimal).

// DecodeList desserializa um campo de formulário contendo um array
// JSON. Campo vazio é um array vazio, não um erro.
func DecodeList[T any](raw string) ([]T, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("payload inválido: %w", err)
	}
	return out, nil
}

func allEmpty(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type GeradorPayload struct {
	Capacidade        string `json:"capacidade"`
	Marca             string `json:"marca"`
	Ano               string `json:"ano"`
	Situacao          string `json:"situacao"`
	ValorRecuperacao  string `json:"valor_recuperacao"`
	Pode24h           bool   `json:"pode_24h"`
	Horas             string `json:"horas"`
	UltimaManutencao  string `json:"ultima_manutencao"`
	ProximaManutencao string `json:"proxima_manutencao"`
	Observacoes       string `json:"observacoes"`
}

func (g GeradorPayload) Empty() bool {
	return !g.Pode24h && allEmpty(g.Capacidade, g.Marca, g.Ano, g.Situacao,
		g.ValorRecuperacao, g.Horas, g.UltimaManutencao, g.ProximaManutencao, g.Observacoes)
}

func (g GeradorPayload) ToModel(orgaoID uint) models.Gerador {
	return models.Gerador{
		OrgaoProvedorID:        orgaoID,
		CapacidadeKva:          FloatOrZero(g.Capacidade),
		MarcaModelo:            strings.TrimSpace(g.Marca),
		AnoFabricacao:          ToInt(g.Ano),
		Situacao:               models.CoerceSituacaoGerador(g.Situacao),
		ValorRecuperacao:       ToFloat(g.ValorRecuperacao),
		PodeOperar24h:          g.Pode24h,
		HorasOperacaoContinuas: ToInt(g.Horas),
		UltimaManutencao:       strings.TrimSpace(g.UltimaManutencao),
		ProximaManutencao:      strings.TrimSpace(g.ProximaManutencao),
		Observacoes:            strings.TrimSpace(g.Observacoes),
	}
}

type EnergiaPayload struct {
	Dimensionamento    string `json:"dimensionamento"`
	CapacidadeTotalKva string `json:"capacidade_total_kva"`
	Observacoes        string `json:"observacoes"`
}

func (e EnergiaPayload) Empty() bool {
	return allEmpty(e.Dimensionamento, e.CapacidadeTotalKva, e.Observacoes)
}

func (e EnergiaPayload) ToModel(orgaoID uint) models.EnergiaEletrica {
	return models.EnergiaEletrica{
		OrgaoProvedorID:    orgaoID,
		Dimensionamento:    models.CoerceDimensionamento(e.Dimensionamento),
		CapacidadeTotalKva: FloatOrZero(e.CapacidadeTotalKva),
		Observacoes:        strings.TrimSpace(e.Observacoes),
	}
}

type ViaturaPayload struct {
	Categoria         string `json:"categoria"`
	TipoVeiculo       string `json:"tipo_veiculo"`
	Especializacao    string `json:"especializacao"`
	Placa             string `json:"placa"`
	Marca             string `json:"marca"`
	Modelo            string `json:"modelo"`
	Ano               string `json:"ano_fabricacao"`
	CapacidadeCargaKg string `json:"capacidade_carga_kg"`
	LotacaoPessoas    string `json:"lotacao_pessoas"`
	ValorRecuperacao  string `json:"valor_recuperacao"`
	TipoRefrigeracao  string `json:"tipo_refrigeracao"`
	TemperaturaMin    string `json:"temperatura_min"`
	TemperaturaMax    string `json:"temperatura_max"`
	Situacao          string `json:"situacao"`
	UltimaManutencao  string `json:"ultima_manutencao"`
	ProximaManutencao string `json:"proxima_manutencao"`
	KmAtual           string `json:"km_atual"`
	NumeroInventario  string `json:"numero_inventario"`
	Patrimonio        string `json:"patrimonio"`
	Observacoes       string `json:"observacoes"`
}

func (v ViaturaPayload) Empty() bool {
	return allEmpty(v.Categoria, v.TipoVeiculo, v.Especializacao, v.Placa, v.Marca,
		v.Modelo, v.Ano, v.CapacidadeCargaKg, v.LotacaoPessoas, v.ValorRecuperacao,
		v.TipoRefrigeracao, v.Situacao, v.KmAtual, v.NumeroInventario, v.Patrimonio,
		v.Observacoes)
}

func (v ViaturaPayload) ToModel(orgaoID uint) models.Viatura {
	return models.Viatura{
		OrgaoProvedorID:   orgaoID,
		Categoria:         strings.TrimSpace(v.Categoria),
		TipoVeiculo:       strings.TrimSpace(v.TipoVeiculo),
		Especializacao:    strings.TrimSpace(v.Especializacao),
		Placa:             strings.ToUpper(strings.TrimSpace(v.Placa)),
		Marca:             strings.TrimSpace(v.Marca),
		Modelo:            strings.TrimSpace(v.Modelo),
		AnoFabricacao:     ToInt(v.Ano),
		CapacidadeCargaKg: ToFloat(v.CapacidadeCargaKg),
		LotacaoPessoas:    ToInt(v.LotacaoPessoas),
		ValorRecuperacao:  ToFloat(v.ValorRecuperacao),
		TipoRefrigeracao:  strings.TrimSpace(v.TipoRefrigeracao),
		TemperaturaMin:    ToFloat(v.TemperaturaMin),
		TemperaturaMax:    ToFloat(v.TemperaturaMax),
		Situacao:          models.CoerceSituacaoViatura(v.Situacao),
		UltimaManutencao:  strings.TrimSpace(v.UltimaManutencao),
		ProximaManutencao: strings.TrimSpace(v.ProximaManutencao),
		KmAtual:           ToInt(v.KmAtual),
		NumeroInventario:  strings.TrimSpace(v.NumeroInventario),
		Patrimonio:        strings.TrimSpace(v.Patrimonio),
		Observacoes:       strings.TrimSpace(v.Observacoes),
	}
}

type EmpilhadeiraPayload struct {
	Tipo             string `json:"tipo"`
	Capacidade       string `json:"capacidade"`
	Quantidade       string `json:"quantidade"`
	Ano              string `json:"ano_fabricacao"`
	Situacao         string `json:"situacao"`
	ValorRecuperacao string `json:"valor_recuperacao"`
}

func (e EmpilhadeiraPayload) Empty() bool {
	return allEmpty(e.Tipo, e.Capacidade, e.Quantidade, e.Ano, e.Situacao, e.ValorRecuperacao)
}

func (e EmpilhadeiraPayload) ToModel(instalacaoID uint) models.Empilhadeira {
	return models.Empilhadeira{
		InstalacaoID:     instalacaoID,
		Tipo:             strings.TrimSpace(e.Tipo),
		Capacidade:       ToFloat(e.Capacidade),
		Quantidade:       ToInt(e.Quantidade),
		AnoFabricacao:    ToInt(e.Ano),
		Situacao:         models.CoerceSituacaoEmpilhadeira(e.Situacao),
		ValorRecuperacao: ToFloat(e.ValorRecuperacao),
	}
}

type SistemaSegurancaPayload struct {
	Tipo              string `json:"tipo"`
	Descricao         string `json:"descricao"`
	Situacao          string `json:"situacao"`
	UltimaManutencao  string `json:"ultima_manutencao"`
	ProximaManutencao string `json:"proxima_manutencao"`
}

func (s SistemaSegurancaPayload) Empty() bool {
	return allEmpty(s.Tipo, s.Descricao, s.Situacao, s.UltimaManutencao, s.ProximaManutencao)
}

func (s SistemaSegurancaPayload) ToModel(instalacaoID uint) models.SistemaSeguranca {
	return models.SistemaSeguranca{
		InstalacaoID:      instalacaoID,
		Tipo:              strings.TrimSpace(s.Tipo),
		Descricao:         strings.TrimSpace(s.Descricao),
		Situacao:          models.CoerceSituacaoEquipamento(s.Situacao),
		UltimaManutencao:  strings.TrimSpace(s.UltimaManutencao),
		ProximaManutencao: strings.TrimSpace(s.ProximaManutencao),
	}
}

type EquipamentoPayload struct {
	Tipo         string `json:"tipo"`
	Quantidade   string `json:"quantidade"`
	CapacidadeKg string `json:"capacidade_kg"`
	Situacao     string `json:"situacao"`
	Observacoes  string `json:"observacoes"`
}

func (e EquipamentoPayload) Empty() bool {
	return allEmpty(e.Tipo, e.Quantidade, e.CapacidadeKg, e.Situacao, e.Observacoes)
}

func (e EquipamentoPayload) ToModel(instalacaoID uint) models.EquipamentoUnitizacao {
	return models.EquipamentoUnitizacao{
		InstalacaoID: instalacaoID,
		Tipo:         strings.TrimSpace(e.Tipo),
		Quantidade:   ToInt(e.Quantidade),
		CapacidadeKg: ToFloat(e.CapacidadeKg),
		Situacao:     models.CoerceSituacaoEquipamento(e.Situacao),
		Observacoes:  strings.TrimSpace(e.Observacoes),
	}
}

type InstalacaoPayload struct {
	TipoInstalacao      string `json:"tipo_instalacao"`
	NomeIdentificacao   string `json:"nome_identificacao"`
	Descricao           string `json:"descricao"`
	DataConstrucao      string `json:"data_construcao"`
	TipoCobertura       string `json:"tipo_cobertura"`
	CapacidadeToneladas string `json:"capacidade_toneladas"`
	Largura             string `json:"largura"`
	Comprimento         string `json:"comprimento"`
	Altura              string `json:"altura"`
	Verticalizacao      string `json:"verticalizacao"`

	// subitens só são considerados quando o tipo denota depósito
	Empilhadeiras []EmpilhadeiraPayload     `json:"empilhadeiras"`
	Sistemas      []SistemaSegurancaPayload `json:"sistemas_seguranca"`
	Equipamentos  []EquipamentoPayload      `json:"equipamentos"`
}

func (i InstalacaoPayload) Empty() bool {
	return allEmpty(i.TipoInstalacao, i.NomeIdentificacao, i.Descricao, i.DataConstrucao,
		i.TipoCobertura, i.CapacidadeToneladas, i.Largura, i.Comprimento, i.Altura,
		i.Verticalizacao) &&
		len(i.Empilhadeiras) == 0 && len(i.Sistemas) == 0 && len(i.Equipamentos) == 0
}

func (i InstalacaoPayload) ToModel(orgaoID uint) models.Instalacao {
	return models.Instalacao{
		OrgaoProvedorID:     orgaoID,
		TipoInstalacao:      strings.TrimSpace(i.TipoInstalacao),
		NomeIdentificacao:   strings.TrimSpace(i.NomeIdentificacao),
		Descricao:           strings.TrimSpace(i.Descricao),
		DataConstrucao:      strings.TrimSpace(i.DataConstrucao),
		TipoCobertura:       strings.TrimSpace(i.TipoCobertura),
		CapacidadeToneladas: ToFloat(i.CapacidadeToneladas),
		Largura:             ToFloat(i.Largura),
		Comprimento:         ToFloat(i.Comprimento),
		Altura:              ToFloat(i.Altura),
		Verticalizacao:      strings.TrimSpace(i.Verticalizacao),
	}
}

type PessoalPayload struct {
	PostoGraduacao    string `json:"posto_graduacao"`
	ArmaQuadroServico string `json:"arma_quadro_servico"`
	Especialidade     string `json:"especialidade"`
	Funcao            string `json:"funcao"`
	TipoServico       string `json:"tipo_servico"`
	Quantidade        string `json:"quantidade"`
	Observacoes       string `json:"observacoes"`
}

func (p PessoalPayload) Empty() bool {
	return allEmpty(p.PostoGraduacao, p.ArmaQuadroServico, p.Especialidade,
		p.Funcao, p.TipoServico, p.Quantidade, p.Observacoes)
}

func (p PessoalPayload) ToModel(orgaoID uint) models.Pessoal {
	qtd := IntOrZero(p.Quantidade)
	if qtd <= 0 {
		qtd = 1
	}
	return models.Pessoal{
		OrgaoProvedorID:   orgaoID,
		PostoGraduacao:    strings.TrimSpace(p.PostoGraduacao),
		ArmaQuadroServico: strings.TrimSpace(p.ArmaQuadroServico),
		Especialidade:     strings.TrimSpace(p.Especialidade),
		Funcao:            strings.TrimSpace(p.Funcao),
		TipoServico:       models.CoerceTipoServico(p.TipoServico),
		Quantidade:        qtd,
		Observacoes:       strings.TrimSpace(p.Observacoes),
	}
}
