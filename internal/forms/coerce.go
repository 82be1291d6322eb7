package forms

import (
	"strconv"
	"strings"
)

// normalizeNumber aceita números no formato local: remove separador de
// milhar ('.') e troca a vírgula decimal por ponto.
func normalizeNumber(val string) string {
	text := strings.TrimSpace(val)
	text = strings.ReplaceAll(text, ".", "")
	text = strings.ReplaceAll(text, ",", ".")
	return text
}

// ToFloat converte texto de formulário em número. Vazio ou ilegível
// vira nil — o chamador decide entre manter o valor anterior ou zero.
func ToFloat(val string) *float64 {
	text := normalizeNumber(val)
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &f
}

func ToInt(val string) *int {
	f := ToFloat(val)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// FloatOrZero aplica a política de campos obrigatórios: ausente ou
// ilegível grava zero.
func FloatOrZero(val string) float64 {
	if f := ToFloat(val); f != nil {
		return *f
	}
	return 0
}

func IntOrZero(val string) int {
	if n := ToInt(val); n != nil {
		return *n
	}
	return 0
}
