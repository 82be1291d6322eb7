package refdata

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// UnidadeInfo é o que a planilha CODOM conhece sobre uma OM.
type UnidadeInfo struct {
	Codom        string `json:"CODOM"`
	UG           string `json:"UG"`
	Subordinacao string `json:"SUBORDINACAO"`
}

// OMVinculada é uma OM apoiada por um Órgão Provedor (planilha Dados,
// aba Vinculo_OM).
type OMVinculada struct {
	Sigla   string `json:"sigla"`
	Codom   string `json:"codom"`
	UG      string `json:"ug"`
	CodomOP string `json:"codom_op"`
	UGOP    string `json:"ug_op"`
}

// Dataset agrega os mapas de referência carregados das planilhas no
// boot. É imutável depois de construído; os handlers recebem apenas
// leituras.
type Dataset struct {
	UGCodom      map[string]UnidadeInfo   // sigla da OM → códigos
	Subordinacao map[string]string        // CODOM → subordinação
	VinculosOP   map[string][]OMVinculada // sigla normalizada do OP → OMs apoiadas
	EfetivoOM    map[string]int           // sigla normalizada da OM → efetivo médio
	RMPorOP      map[string]string        // sigla normalizada do OP → região militar
	ListaOMs     []string
}

func emptyDataset() *Dataset {
	return &Dataset{
		UGCodom:      map[string]UnidadeInfo{},
		Subordinacao: map[string]string{},
		VinculosOP:   map[string][]OMVinculada{},
		EfetivoOM:    map[string]int{},
		RMPorOP:      map[string]string{},
	}
}

// Load lê CODOM.xlsx e Dados.xlsx do diretório informado. Falha de
// leitura não derruba a aplicação: o mapa correspondente fica vazio e
// as buscas passam a devolver resultados vazios.
func Load(dir string) *Dataset {
	ds := emptyDataset()
	ds.loadCodom(filepath.Join(dir, "CODOM.xlsx"))
	ds.loadVinculoEfetivo(filepath.Join(dir, "Dados.xlsx"))
	return ds
}

// headerIndex mapeia cabeçalhos normalizados → índice da coluna, de
// modo que "SUBORDINACAO" e "SUBORDINAÇÃO" resolvam para a mesma coluna.
func headerIndex(row []string) map[string]int {
	idx := make(map[string]int, len(row))
	for i, h := range row {
		key := Normalize(h)
		if key != "" {
			if _, seen := idx[key]; !seen {
				idx[key] = i
			}
		}
	}
	return idx
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[Normalize(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (ds *Dataset) loadCodom(path string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Warn().Err(err).Str("arquivo", path).Msg("não foi possível carregar CODOM.xlsx; buscas de UG/CODOM ficarão vazias")
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) == 0 {
		log.Warn().Err(err).Str("arquivo", path).Msg("planilha CODOM sem linhas legíveis")
		return
	}

	idx := headerIndex(rows[0])
	for _, row := range rows[1:] {
		sigla := cell(row, idx, "SIGLA")
		if sigla == "" {
			continue
		}
		codom := cell(row, idx, "CODOM")
		info := UnidadeInfo{
			Codom:        codom,
			UG:           cell(row, idx, "UG"),
			Subordinacao: cell(row, idx, "SUBORDINACAO"),
		}
		// último valor encontrado vence, como na planilha original
		ds.UGCodom[sigla] = info
		if codom != "" && info.Subordinacao != "" {
			ds.Subordinacao[codom] = info.Subordinacao
		}
	}

	ds.ListaOMs = ds.ListaOMs[:0]
	for sigla := range ds.UGCodom {
		ds.ListaOMs = append(ds.ListaOMs, sigla)
	}
	log.Info().Int("oms", len(ds.UGCodom)).Msg("planilha CODOM carregada")
}

func (ds *Dataset) loadVinculoEfetivo(path string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Warn().Err(err).Str("arquivo", path).Msg("não foi possível carregar Dados.xlsx; vínculos e efetivos ficarão vazios")
		return
	}
	defer f.Close()

	vinc, err := f.GetRows("Vinculo_OM")
	if err == nil && len(vinc) > 1 {
		idx := headerIndex(vinc[0])
		for _, row := range vinc[1:] {
			omSigla := cell(row, idx, "SIGLA OM")
			opSigla := cell(row, idx, "SIGLA OM VINC OP")
			chaveOP := Normalize(opSigla)
			if chaveOP != "" && omSigla != "" {
				ds.VinculosOP[chaveOP] = append(ds.VinculosOP[chaveOP], OMVinculada{
					Sigla:   omSigla,
					Codom:   cell(row, idx, "COD OM"),
					UG:      cell(row, idx, "COD UG"),
					CodomOP: cell(row, idx, "COD OM VINC OP"),
					UGOP:    cell(row, idx, "COD UG VINC OP"),
				})
			}
			if rm := cell(row, idx, "RM"); chaveOP != "" && rm != "" {
				ds.RMPorOP[chaveOP] = rm
			}
		}
	} else if err != nil {
		log.Warn().Err(err).Str("arquivo", path).Msg("aba Vinculo_OM ausente")
	}

	efet, err := f.GetRows("Efetivo")
	if err == nil && len(efet) > 1 {
		idx := headerIndex(efet[0])
		for _, row := range efet[1:] {
			chave := Normalize(cell(row, idx, "SIGLA OM"))
			raw := cell(row, idx, "MEDIA EFETIVO ATIVA")
			if chave == "" || raw == "" {
				continue
			}
			val, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil {
				continue
			}
			ds.EfetivoOM[chave] = int(val)
		}
	} else if err != nil {
		log.Warn().Err(err).Str("arquivo", path).Msg("aba Efetivo ausente")
	}

	log.Info().
		Int("vinculos", len(ds.VinculosOP)).
		Int("efetivos", len(ds.EfetivoOM)).
		Msg("planilha Dados carregada")
}

// UGCodomFor busca os códigos de uma OM por sigla, tolerando variações
// de grafia e siglas parciais.
func (ds *Dataset) UGCodomFor(sigla string) UnidadeInfo {
	alvo := Normalize(sigla)
	if alvo == "" {
		return UnidadeInfo{}
	}
	for key, info := range ds.UGCodom {
		keyNorm := Normalize(key)
		if alvo == keyNorm {
			return info
		}
		if strings.Contains(keyNorm, alvo) || strings.Contains(alvo, keyNorm) {
			return info
		}
	}
	return UnidadeInfo{}
}

// SubordinacaoByCodom devolve a subordinação cadastrada para o CODOM.
func (ds *Dataset) SubordinacaoByCodom(codom string) string {
	return ds.Subordinacao[strings.TrimSpace(codom)]
}

// OMsApoiadas lista as OMs vinculadas a um Órgão Provedor.
func (ds *Dataset) OMsApoiadas(siglaOP string) []OMVinculada {
	return ds.VinculosOP[Normalize(siglaOP)]
}
