package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ItemResult é o resultado por item de um insert-many: a falha de um
// item não derruba os irmãos.
type ItemResult struct {
	Index  int
	OK     bool
	Reason string
}

// Accepted conta quantos itens foram gravados.
func Accepted(results []ItemResult) int {
	n := 0
	for _, r := range results {
		if r.OK {
			n++
		}
	}
	return n
}

// InsertEach executa insert por item sob savepoints nomeados: um item
// que viole restrição (placa duplicada, por exemplo) é revertido até o
// seu savepoint e descartado, e o processamento segue para o próximo.
func InsertEach(tx *gorm.DB, kind string, n int, insert func(i int) error) []ItemResult {
	results := make([]ItemResult, 0, n)
	for i := 0; i < n; i++ {
		sp := fmt.Sprintf("sp_%s_%d", kind, i)
		tx.SavePoint(sp)
		if err := insert(i); err != nil {
			tx.RollbackTo(sp)
			log.Warn().Err(err).Str("tipo", kind).Int("item", i).Msg("item do cadastro descartado")
			results = append(results, ItemResult{Index: i, Reason: err.Error()})
			continue
		}
		results = append(results, ItemResult{Index: i, OK: true})
	}
	return results
}
