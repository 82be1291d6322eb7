package refdata

// Lista fixa de Órgãos Provedores permitidos no cadastro (nome → sigla).
var OrgaosProvedores = map[string]string{
	"1º DEPÓSITO DE SUPRIMENTO":                  "1º D SUP",
	"2º BATALHÃO DE SUPRIMENTO":                  "2º B SUP",
	"3º BATALHÃO DE SUPRIMENTO":                  "3º B SUP",
	"4º DEPÓSITO DE SUPRIMENTO":                  "4º D SUP",
	"5º BATALHÃO DE SUPRIMENTO":                  "5º B SUP",
	"6º DEPÓSITO DE SUPRIMENTO":                  "6º D SUP",
	"7º DEPÓSITO DE SUPRIMENTO":                  "7º D SUP",
	"8º BATALHÃO DE SUPRIMENTO DE SELVA":         "8º B SUP SL",
	"9º BATALHÃO DE SUPRIMENTO":                  "9º B SUP",
	"10º DEPÓSITO DE SUPRIMENTO":                 "10º D SUP",
	"11º DEPÓSITO DE SUPRIMENTO":                 "11º D SUP",
	"12º BATALHÃO DE SUPRIMENTO":                 "12º B SUP",
	"1º BATALHÃO LOGÍSTICO DE SELVA":             "1º B LOG SL",
	"17º BATALHÃO LOGÍSTICO DE SELVA":            "17º B LOG SL",
	"16ª BASE LOGÍSTICA":                         "16ª BA LOG",
	"DEPÓSITO DE SUBSISTÊNCIA DE SANTA MARIA":    "DSSM",
	"DEPÓSITO DE SUBSISTÊNCIA DE SANTO ÂNGELO":   "DSSA",
	"DEPÓSITO CENTRAL DE MUNIÇÃO":                "DC MUN",
	"13ª COMPANHIA DEPÓSITO DE ARMAMENTO E MUNIÇÃO": "13ª CIA DAM",
	"CENTRO LOGÍSTICO DE MÍSSEIS E FOGUETES":     "C LOG MSL FGT",
	"BATALHÃO DE DOBRAGEM, MANUTENÇÃO DE PÁRA-QUEDAS E SUPRIMENTO PELO AR": "B DOMPSA",
}

// orgaosNorm indexa o catálogo por chave normalizada para buscas
// tolerantes a acento e caixa.
var orgaosNorm = func() map[string]string {
	m := make(map[string]string, len(OrgaosProvedores))
	for nome, sigla := range OrgaosProvedores {
		m[Normalize(nome)] = sigla
	}
	return m
}()

// ValidOrgao verifica se o nome pertence ao catálogo fixo.
func ValidOrgao(nome string) bool {
	_, ok := orgaosNorm[Normalize(nome)]
	return ok
}

// SiglaFor devolve a sigla esperada para o nome do órgão, ou "".
func SiglaFor(nome string) string {
	if s, ok := OrgaosProvedores[nome]; ok {
		return s
	}
	return orgaosNorm[Normalize(nome)]
}

// SameOrgao compara dois nomes de órgão de forma tolerante.
func SameOrgao(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Postos/graduações canônicos, na ordem de exibição.
var PostoMap = map[string]string{
	"general_exercito":     "General de Exército",
	"general_divisao":      "General de Divisão",
	"general_brigada":      "General de Brigada",
	"coronel":              "Cel",
	"tenente_coronel":      "TC",
	"major":                "Major",
	"capitao":              "Capitão",
	"primeiro_tenente":     "1º Tenente",
	"segundo_tenente":      "2º Tenente",
	"aspirante":            "Aspirante",
	"subtenente":           "Subtenente",
	"primeiro_sargento":    "1º Sargento",
	"segundo_sargento":     "2º Sargento",
	"terceiro_sargento":    "3º Sargento",
	"cabo":                 "Cabo",
	"soldado":              "Sd",
	"taifeiro":             "Taifeiro",
	"civil_superior":       "Servidor Superior",
	"civil_tecnico":        "Servidor Técnico",
	"civil_administrativo": "Servidor Administrativo",
	"outro":                "Outro",
}

func PostoDisplay(key string) string {
	if v, ok := PostoMap[key]; ok {
		return v
	}
	return key
}

var ArmaQuadros = []string{
	"Infantaria", "Cavalaria", "Artilharia", "Engenharia", "Comunicações",
	"Material Bélico", "Saúde", "Administração", "Intendência", "Técnico",
	"QCO", "QAO", "QEM", "Aviação", "Manutenção de Comunicações", "Topografia",
}

var Especialidades = []string{
	"Transporte", "Mecânica", "Eletricidade", "Manutenção de Veículos", "Eletrônica",
	"Enfermagem", "Medicina", "Veterinária", "Comunicações", "Municiamento", "Culinária",
	"Administrativo", "Saneamento", "Suprimento", "Contabilidade", "Informática",
	"Direito", "Farmácia", "Dentista", "Mecânica Automotiva", "Mecânica de Armamento",
	"Mecânico Operador", "Outro",
}
