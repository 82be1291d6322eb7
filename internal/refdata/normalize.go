package refdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize reduz um nome ou sigla a uma chave de comparação tolerante:
// decompõe acentos, sobe para maiúsculas, remove indicadores ordinais e
// colapsa espaços repetidos. Duas grafias da mesma OM devem produzir a
// mesma chave.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = strings.ToUpper(out)
	out = strings.NewReplacer("º", "", "ª", "", "°", "").Replace(out)
	return strings.Join(strings.Fields(out), " ")
}
