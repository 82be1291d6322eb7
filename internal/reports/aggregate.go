package reports

import (
	"sort"
	"strings"

	"opregistro/internal/models"

	"gorm.io/gorm"
)

// Resumos por órgão exibidos no painel do administrador. As chaves dos
// mapas são ids de OrgaoProvedor.

type EmpilhadeiraResumo struct {
	Total      int
	CapEstoque float64
}

type ViaturaResumo struct {
	Total    int
	CapTotal float64
	CapFrigo float64
	CapSeco  float64
}

type BauResumo struct {
	Total       int
	Operacional int
	Manutencao  int
	Inoperante  int
}

type ViaturaBauResumo struct {
	BauSeco  BauResumo
	BauFrigo BauResumo
}

type GeradorResumo struct {
	Total       int
	CapKva      float64
	Operacional int
	Manutencao  int
	Baixada     int
}

type EnergiaResumo struct {
	Dimensionamento string
	CapacidadeKva   float64
}

type SistemasDepositoResumo struct {
	DepositosTotal      int
	DepositosComSistema int
	DepositosSemSistema int
	SistemasTotal       int
	Operacional         int
	Manutencao          int
	Inoperante          int
}

type VerticalizacaoCL struct {
	OrgaoID          uint
	CL               string
	Total            int
	Verticalizado    int
	NaoVerticalizado int
	Perc             float64
}

type FrigoDeficitItem struct {
	OrgaoID   uint
	Sigla     string
	CapFrigo  float64
	ConsFrigo float64
	Cobertura float64
	AreaDisp  float64
	TemArea   bool
}

type EmpilhadeirasSituacaoResumo struct {
	Situacoes map[string]int
	Depositos int
}

type Analiticos struct {
	Empilhadeiras         map[uint]EmpilhadeiraResumo
	Sistemas              map[uint]int
	Equipamentos          map[uint]int
	Viaturas              map[uint]ViaturaResumo
	ViaturasBau           map[uint]ViaturaBauResumo
	Pessoal               map[uint]int
	PessoalPorPosto       map[uint]map[string]int
	Geradores             map[uint]GeradorResumo
	Instalacoes           map[uint]int
	Energia               map[uint]EnergiaResumo
	SistemasDepositos     map[uint]SistemasDepositoResumo
	Verticalizacao        []VerticalizacaoCL
	FrigoDeficit          []FrigoDeficitItem
	EmpilhadeirasSituacao map[uint]EmpilhadeirasSituacaoResumo
}

// BuildAnaliticos roda as agregações do painel. Falha numa agregação
// não derruba as demais: o bloco correspondente fica vazio.
func BuildAnaliticos(db *gorm.DB, orgaos []models.OrgaoProvedor) *Analiticos {
	a := &Analiticos{
		Empilhadeiras:         map[uint]EmpilhadeiraResumo{},
		Sistemas:              map[uint]int{},
		Equipamentos:          map[uint]int{},
		Viaturas:              map[uint]ViaturaResumo{},
		ViaturasBau:           map[uint]ViaturaBauResumo{},
		Pessoal:               map[uint]int{},
		PessoalPorPosto:       map[uint]map[string]int{},
		Geradores:             map[uint]GeradorResumo{},
		Instalacoes:           map[uint]int{},
		Energia:               map[uint]EnergiaResumo{},
		SistemasDepositos:     map[uint]SistemasDepositoResumo{},
		EmpilhadeirasSituacao: map[uint]EmpilhadeirasSituacaoResumo{},
	}

	a.aggregateEmpilhadeiras(db)
	a.aggregateContagens(db)
	a.aggregateViaturas(db)
	a.aggregateViaturasBau(db)
	a.aggregatePessoal(db)
	a.aggregateGeradores(db)
	a.aggregateEnergia(db)
	a.aggregateSistemasDepositos(db)
	a.aggregateVerticalizacao(db)
	a.aggregateEmpilhadeirasSituacao(db)
	a.FrigoDeficit = FrigoDeficit(orgaos)

	return a
}

func (a *Analiticos) aggregateEmpilhadeiras(db *gorm.DB) {
	var rows []struct {
		OpID       uint
		TotalEmp   int
		CapEstoque float64
	}
	err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id,
		       COUNT(e.id) AS total_emp,
		       SUM(COALESCE(i.capacidade_toneladas, 0)) AS cap_estoque
		FROM instalacoes i
		LEFT JOIN empilhadeiras e ON e.instalacao_id = i.id
		GROUP BY i.orgao_provedor_id`).Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		a.Empilhadeiras[r.OpID] = EmpilhadeiraResumo{Total: r.TotalEmp, CapEstoque: r.CapEstoque}
	}
}

func (a *Analiticos) aggregateContagens(db *gorm.DB) {
	var rows []struct {
		OpID  uint
		Total int
	}
	if err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id, COUNT(s.id) AS total
		FROM sistemas_seguranca s
		JOIN instalacoes i ON s.instalacao_id = i.id
		GROUP BY i.orgao_provedor_id`).Scan(&rows).Error; err == nil {
		for _, r := range rows {
			a.Sistemas[r.OpID] = r.Total
		}
	}

	rows = nil
	if err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id, COUNT(eq.id) AS total
		FROM equipamentos_unitizacao eq
		JOIN instalacoes i ON eq.instalacao_id = i.id
		GROUP BY i.orgao_provedor_id`).Scan(&rows).Error; err == nil {
		for _, r := range rows {
			a.Equipamentos[r.OpID] = r.Total
		}
	}

	rows = nil
	if err := db.Raw(`
		SELECT orgao_provedor_id AS op_id, COUNT(*) AS total
		FROM instalacoes
		GROUP BY orgao_provedor_id`).Scan(&rows).Error; err == nil {
		for _, r := range rows {
			a.Instalacoes[r.OpID] = r.Total
		}
	}
}

func (a *Analiticos) aggregateViaturas(db *gorm.DB) {
	var rows []struct {
		OpID     uint
		Total    int
		CapTotal float64
		CapFrigo float64
		CapSeco  float64
	}
	err := db.Raw(`
		SELECT orgao_provedor_id AS op_id,
		       COUNT(*) AS total,
		       COALESCE(SUM(capacidade_carga_kg),0) AS cap_total,
		       COALESCE(SUM(CASE WHEN LOWER(especializacao) LIKE '%frigo%' THEN capacidade_carga_kg ELSE 0 END),0) AS cap_frigo,
		       COALESCE(SUM(CASE WHEN LOWER(especializacao) LIKE '%frigo%' THEN 0 ELSE capacidade_carga_kg END),0) AS cap_seco
		FROM viaturas
		GROUP BY orgao_provedor_id`).Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		a.Viaturas[r.OpID] = ViaturaResumo{Total: r.Total, CapTotal: r.CapTotal, CapFrigo: r.CapFrigo, CapSeco: r.CapSeco}
	}
}

// Só viaturas de transporte especializado (tipo começando com "vte")
// entram no detalhamento de baús.
func (a *Analiticos) aggregateViaturasBau(db *gorm.DB) {
	var rows []struct {
		OpID                uint
		BauSecoTotal        int
		BauSecoOperacional  int
		BauSecoManutencao   int
		BauSecoInoperante   int
		BauFrigoTotal       int
		BauFrigoOperacional int
		BauFrigoManutencao  int
		BauFrigoInoperante  int
	}
	err := db.Raw(`
		SELECT orgao_provedor_id AS op_id,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) NOT LIKE '%frigo%' THEN 1 ELSE 0 END) AS bau_seco_total,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) NOT LIKE '%frigo%' AND situacao = 'operacional' THEN 1 ELSE 0 END) AS bau_seco_operacional,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) NOT LIKE '%frigo%' AND situacao = 'em_manutencao' THEN 1 ELSE 0 END) AS bau_seco_manutencao,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) NOT LIKE '%frigo%' AND situacao IN ('inoperante','baixada') THEN 1 ELSE 0 END) AS bau_seco_inoperante,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) LIKE '%frigo%' THEN 1 ELSE 0 END) AS bau_frigo_total,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) LIKE '%frigo%' AND situacao = 'operacional' THEN 1 ELSE 0 END) AS bau_frigo_operacional,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) LIKE '%frigo%' AND situacao = 'em_manutencao' THEN 1 ELSE 0 END) AS bau_frigo_manutencao,
		       SUM(CASE WHEN LOWER(especializacao) LIKE '%bau%' AND LOWER(especializacao) LIKE '%frigo%' AND situacao IN ('inoperante','baixada') THEN 1 ELSE 0 END) AS bau_frigo_inoperante
		FROM viaturas
		WHERE LOWER(tipo_veiculo) LIKE 'vte%'
		GROUP BY orgao_provedor_id`).Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		a.ViaturasBau[r.OpID] = ViaturaBauResumo{
			BauSeco:  BauResumo{Total: r.BauSecoTotal, Operacional: r.BauSecoOperacional, Manutencao: r.BauSecoManutencao, Inoperante: r.BauSecoInoperante},
			BauFrigo: BauResumo{Total: r.BauFrigoTotal, Operacional: r.BauFrigoOperacional, Manutencao: r.BauFrigoManutencao, Inoperante: r.BauFrigoInoperante},
		}
	}
}

func (a *Analiticos) aggregatePessoal(db *gorm.DB) {
	var rows []struct {
		OpID  uint
		Total int
	}
	if err := db.Raw(`
		SELECT orgao_provedor_id AS op_id, COALESCE(SUM(quantidade),0) AS total
		FROM pessoal
		GROUP BY orgao_provedor_id`).Scan(&rows).Error; err == nil {
		for _, r := range rows {
			a.Pessoal[r.OpID] = r.Total
		}
	}

	var porPosto []struct {
		OpID           uint
		PostoGraduacao string
		Total          int
	}
	if err := db.Raw(`
		SELECT orgao_provedor_id AS op_id, posto_graduacao, COALESCE(SUM(quantidade),0) AS total
		FROM pessoal
		GROUP BY orgao_provedor_id, posto_graduacao`).Scan(&porPosto).Error; err == nil {
		for _, r := range porPosto {
			posto := r.PostoGraduacao
			if posto == "" {
				posto = "outro"
			}
			if a.PessoalPorPosto[r.OpID] == nil {
				a.PessoalPorPosto[r.OpID] = map[string]int{}
			}
			a.PessoalPorPosto[r.OpID][posto] = r.Total
		}
	}
}

func (a *Analiticos) aggregateGeradores(db *gorm.DB) {
	var rows []struct {
		OpID        uint
		Total       int
		CapKva      float64
		Operacional int
		Manutencao  int
		Baixada     int
	}
	err := db.Raw(`
		SELECT orgao_provedor_id AS op_id,
		       COUNT(*) AS total,
		       COALESCE(SUM(capacidade_kva),0) AS cap_kva,
		       SUM(CASE WHEN situacao = 'operacional' THEN 1 ELSE 0 END) AS operacional,
		       SUM(CASE WHEN situacao = 'em_manutencao' THEN 1 ELSE 0 END) AS manutencao,
		       SUM(CASE WHEN situacao = 'baixada' THEN 1 ELSE 0 END) AS baixada
		FROM geradores
		GROUP BY orgao_provedor_id`).Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		a.Geradores[r.OpID] = GeradorResumo{Total: r.Total, CapKva: r.CapKva, Operacional: r.Operacional, Manutencao: r.Manutencao, Baixada: r.Baixada}
	}
}

func (a *Analiticos) aggregateEnergia(db *gorm.DB) {
	var rows []struct {
		OpID                    uint
		DimensionamentoAdequado string
		CapacidadeTotalKva      float64
	}
	if err := db.Raw(`
		SELECT orgao_provedor_id AS op_id, dimensionamento_adequado, capacidade_total_kva
		FROM energia_eletrica
		GROUP BY orgao_provedor_id`).Scan(&rows).Error; err == nil {
		for _, r := range rows {
			a.Energia[r.OpID] = EnergiaResumo{Dimensionamento: r.DimensionamentoAdequado, CapacidadeKva: r.CapacidadeTotalKva}
		}
	}
}

func (a *Analiticos) aggregateSistemasDepositos(db *gorm.DB) {
	var rows []struct {
		OpID            uint
		DepositosTotal  int
		DepositosComSis int
		SistemasTotal   int
		SisOperacional  int
		SisManutencao   int
		SisInoperante   int
	}
	err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id,
		       COUNT(DISTINCT i.id) AS depositos_total,
		       COUNT(DISTINCT CASE WHEN s.id IS NOT NULL THEN i.id END) AS depositos_com_sis,
		       COUNT(s.id) AS sistemas_total,
		       SUM(CASE WHEN LOWER(COALESCE(s.situacao,'')) = 'operacional' THEN 1 ELSE 0 END) AS sis_operacional,
		       SUM(CASE WHEN LOWER(COALESCE(s.situacao,'')) = 'em_manutencao' THEN 1 ELSE 0 END) AS sis_manutencao,
		       SUM(CASE WHEN LOWER(COALESCE(s.situacao,'')) = 'inoperante' THEN 1 ELSE 0 END) AS sis_inoperante
		FROM instalacoes i
		LEFT JOIN sistemas_seguranca s ON s.instalacao_id = i.id
		WHERE LOWER(i.tipo_instalacao) LIKE '%deposit%'
		GROUP BY i.orgao_provedor_id`).Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		sem := r.DepositosTotal - r.DepositosComSis
		if sem < 0 {
			sem = 0
		}
		a.SistemasDepositos[r.OpID] = SistemasDepositoResumo{
			DepositosTotal:      r.DepositosTotal,
			DepositosComSistema: r.DepositosComSis,
			DepositosSemSistema: sem,
			SistemasTotal:       r.SistemasTotal,
			Operacional:         r.SisOperacional,
			Manutencao:          r.SisManutencao,
			Inoperante:          r.SisInoperante,
		}
	}
}

// mapCL extrai a classe (CL1..CL10) do tipo de instalação de depósito.
func mapCL(tipo string) string {
	for _, num := range []string{"10", "9", "8", "7", "6", "5", "4", "3", "2", "1"} {
		if strings.Contains(tipo, "cl"+num) {
			return "CL" + num
		}
	}
	return ""
}

func (a *Analiticos) aggregateVerticalizacao(db *gorm.DB) {
	var rows []struct {
		OpID           uint
		TipoInstalacao string
		Verticalizacao string
	}
	err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id,
		       LOWER(COALESCE(i.tipo_instalacao, '')) AS tipo_instalacao,
		       LOWER(COALESCE(i.verticalizacao, '')) AS verticalizacao
		FROM instalacoes i
		WHERE LOWER(i.tipo_instalacao) LIKE 'deposito_cl%'`).Scan(&rows).Error
	if err != nil {
		return
	}

	type chave struct {
		op uint
		cl string
	}
	type conta struct{ vert, nao int }
	contagem := map[chave]*conta{}
	var ordem []chave

	for _, r := range rows {
		cl := mapCL(r.TipoInstalacao)
		if cl == "" {
			continue
		}
		k := chave{r.OpID, cl}
		c, ok := contagem[k]
		if !ok {
			c = &conta{}
			contagem[k] = c
			ordem = append(ordem, k)
		}
		if strings.HasPrefix(r.Verticalizacao, "vertical") {
			c.vert++
		} else {
			c.nao++
		}
	}

	for _, k := range ordem {
		c := contagem[k]
		total := c.vert + c.nao
		perc := 0.0
		if total > 0 {
			perc = float64(c.vert) * 100 / float64(total)
		}
		a.Verticalizacao = append(a.Verticalizacao, VerticalizacaoCL{
			OrgaoID:          k.op,
			CL:               k.cl,
			Total:            total,
			Verticalizado:    c.vert,
			NaoVerticalizado: c.nao,
			Perc:             perc,
		})
	}
}

func (a *Analiticos) aggregateEmpilhadeirasSituacao(db *gorm.DB) {
	var sit []struct {
		OpID     uint
		Situacao string
		Total    int
	}
	if err := db.Raw(`
		SELECT i.orgao_provedor_id AS op_id,
		       LOWER(COALESCE(e.situacao,'')) AS situacao,
		       COALESCE(SUM(COALESCE(e.quantidade,1)),0) AS total
		FROM empilhadeiras e
		JOIN instalacoes i ON i.id = e.instalacao_id
		GROUP BY i.orgao_provedor_id, LOWER(COALESCE(e.situacao,''))`).Scan(&sit).Error; err != nil {
		return
	}

	var dep []struct {
		OpID  uint
		Total int
	}
	_ = db.Raw(`
		SELECT orgao_provedor_id AS op_id, COUNT(*) AS total
		FROM instalacoes
		WHERE LOWER(tipo_instalacao) LIKE '%deposit%'
		GROUP BY orgao_provedor_id`).Scan(&dep).Error

	depPorOp := map[uint]int{}
	for _, r := range dep {
		depPorOp[r.OpID] = r.Total
	}

	for _, r := range sit {
		entry, ok := a.EmpilhadeirasSituacao[r.OpID]
		if !ok {
			entry = EmpilhadeirasSituacaoResumo{Situacoes: map[string]int{}}
		}
		situ := r.Situacao
		if situ == "" {
			situ = "indefinida"
		}
		entry.Situacoes[situ] = r.Total
		entry.Depositos = depPorOp[r.OpID]
		a.EmpilhadeirasSituacao[r.OpID] = entry
	}
	for op, total := range depPorOp {
		if _, ok := a.EmpilhadeirasSituacao[op]; !ok {
			a.EmpilhadeirasSituacao[op] = EmpilhadeirasSituacaoResumo{Situacoes: map[string]int{}, Depositos: total}
		}
	}
}

// FrigoDeficit ranqueia os órgãos cuja capacidade frigorificada cobre
// menos de 4 FC do consumo mensal declarado, do pior para o melhor.
// Órgãos sem consumo declarado ficam de fora: ausência de demanda não
// é déficit.
func FrigoDeficit(orgaos []models.OrgaoProvedor) []FrigoDeficitItem {
	const limiteCobertura = 4.0

	items := []FrigoDeficitItem{}
	for _, org := range orgaos {
		capFrigo := org.CapacidadeTotalToneladasSeco
		consFrigo := org.ConsumoFrigorificadosMensal
		if consFrigo == 0 {
			continue
		}
		cobertura := capFrigo / consFrigo
		if cobertura >= limiteCobertura {
			continue
		}
		sigla := org.Sigla
		if sigla == "" {
			sigla = org.Nome
		}
		items = append(items, FrigoDeficitItem{
			OrgaoID:   org.ID,
			Sigla:     sigla,
			CapFrigo:  capFrigo,
			ConsFrigo: consFrigo,
			Cobertura: cobertura,
			AreaDisp:  org.AreaEdificavelDisponivel,
			TemArea:   org.AreaEdificavelDisponivel > 0,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Cobertura < items[j].Cobertura })
	return items
}
