package database_test

import (
	"fmt"
	"testing"

	"opregistro/internal/database"
	"opregistro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func criarOrgao(t *testing.T, db *gorm.DB, nome, sigla string) *models.OrgaoProvedor {
	t.Helper()
	o := &models.OrgaoProvedor{Nome: nome, Sigla: sigla, Subordinacao: "3ª RM"}
	require.NoError(t, db.Create(o).Error)
	return o
}

func TestMigrateCriaTabelas(t *testing.T) {
	db := testDB(t)
	for _, tabela := range []string{
		"usuarios", "orgao_provedor", "instalacoes", "empilhadeiras",
		"sistemas_seguranca", "equipamentos_unitizacao", "geradores",
		"energia_eletrica", "viaturas", "pessoal", "fotos",
	} {
		assert.True(t, db.Migrator().HasTable(tabela), "tabela %s", tabela)
	}
}

func TestInsertEachPlacaDuplicada(t *testing.T) {
	db := testDB(t)
	orgao := criarOrgao(t, db, "2º BATALHÃO DE SUPRIMENTO", "2º B SUP")

	placas := []string{"ABC1234", "DEF5678", "ABC1234", "GHI9012"}
	err := db.Transaction(func(tx *gorm.DB) error {
		results := database.InsertEach(tx, "viatura", len(placas), func(i int) error {
			vt := models.Viatura{
				OrgaoProvedorID: orgao.ID,
				Categoria:       "administrativa",
				TipoVeiculo:     "vtne",
				Placa:           placas[i],
			}
			return tx.Create(&vt).Error
		})

		require.Len(t, results, 4)
		assert.True(t, results[0].OK)
		assert.True(t, results[1].OK)
		assert.False(t, results[2].OK, "placa duplicada deve ser descartada")
		assert.NotEmpty(t, results[2].Reason)
		assert.True(t, results[3].OK, "irmãos posteriores à falha persistem")
		assert.Equal(t, 3, database.Accepted(results))
		return nil
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.Viatura{}).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestDeleteOrgaoCascade(t *testing.T) {
	db := testDB(t)
	orgao := criarOrgao(t, db, "4º DEPÓSITO DE SUPRIMENTO", "4º D SUP")
	outro := criarOrgao(t, db, "7º DEPÓSITO DE SUPRIMENTO", "7º D SUP")

	inst := models.Instalacao{OrgaoProvedorID: orgao.ID, TipoInstalacao: "deposito_cl1"}
	require.NoError(t, db.Create(&inst).Error)
	emp := models.Empilhadeira{InstalacaoID: inst.ID, Tipo: "elétrica", Situacao: models.EmpilhadeiraDisponivel}
	require.NoError(t, db.Create(&emp).Error)
	sis := models.SistemaSeguranca{InstalacaoID: inst.ID, Tipo: "CFTV", Situacao: models.EquipamentoOperacional}
	require.NoError(t, db.Create(&sis).Error)
	vt := models.Viatura{OrgaoProvedorID: orgao.ID, Categoria: "operacional", TipoVeiculo: "vte_bau", Placa: "AAA0001"}
	require.NoError(t, db.Create(&vt).Error)
	ger := models.Gerador{OrgaoProvedorID: orgao.ID, CapacidadeKva: 150, Situacao: models.GeradorOperacional}
	require.NoError(t, db.Create(&ger).Error)
	en := models.EnergiaEletrica{OrgaoProvedorID: orgao.ID, Dimensionamento: models.EnergiaAdequado}
	require.NoError(t, db.Create(&en).Error)
	pes := models.Pessoal{OrgaoProvedorID: orgao.ID, PostoGraduacao: "cabo", ArmaQuadroServico: "Intendência", TipoServico: models.ServicoCarreira, Quantidade: 4}
	require.NoError(t, db.Create(&pes).Error)

	fotosCriadas := []models.Foto{
		{TabelaOrigem: models.OrigemEmpilhadeira, RegistroID: emp.ID, CaminhoArquivo: "empilhadeiras/a.jpg"},
		{TabelaOrigem: models.OrigemViatura, RegistroID: vt.ID, CaminhoArquivo: "viaturas/b.jpg"},
		{TabelaOrigem: models.OrigemAreaEdificavel, RegistroID: orgao.ID, CaminhoArquivo: "areas_edificaveis/c.jpg"},
	}
	for i := range fotosCriadas {
		require.NoError(t, db.Create(&fotosCriadas[i]).Error)
	}

	// registro de outro órgão não pode ser afetado
	vtOutro := models.Viatura{OrgaoProvedorID: outro.ID, Categoria: "administrativa", TipoVeiculo: "vtne", Placa: "ZZZ9999"}
	require.NoError(t, db.Create(&vtOutro).Error)

	var paths []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		paths, err = database.DeleteOrgaoCascade(tx, orgao.ID)
		return err
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"empilhadeiras/a.jpg", "viaturas/b.jpg", "areas_edificaveis/c.jpg",
	}, paths)

	var count int64
	for tabela, model := range map[string]any{
		"instalacoes":        &models.Instalacao{},
		"empilhadeiras":      &models.Empilhadeira{},
		"sistemas_seguranca": &models.SistemaSeguranca{},
		"geradores":          &models.Gerador{},
		"energia_eletrica":   &models.EnergiaEletrica{},
		"pessoal":            &models.Pessoal{},
		"fotos":              &models.Foto{},
	} {
		db.Model(model).Count(&count)
		assert.Zero(t, count, "tabela %s deveria estar vazia", tabela)
	}

	db.Model(&models.Viatura{}).Count(&count)
	assert.EqualValues(t, 1, count, "viatura do outro órgão permanece")
	db.Model(&models.OrgaoProvedor{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

// regravar os mesmos dados substitui em vez de acumular.
func TestReplaceAllIdempotente(t *testing.T) {
	db := testDB(t)
	orgao := criarOrgao(t, db, "9º BATALHÃO DE SUPRIMENTO", "9º B SUP")

	gravar := func() {
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := database.DeleteViaturasDe(tx, orgao.ID); err != nil {
				return err
			}
			for _, placa := range []string{"IDM0001", "IDM0002"} {
				vt := models.Viatura{OrgaoProvedorID: orgao.ID, Categoria: "operacional", TipoVeiculo: "vte_bau", Placa: placa}
				if err := tx.Create(&vt).Error; err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)
	}

	gravar()
	gravar()
	gravar()

	var count int64
	db.Model(&models.Viatura{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestDeleteOrgaoCascadeInexistente(t *testing.T) {
	db := testDB(t)
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := database.DeleteOrgaoCascade(tx, 9999)
		return err
	})
	assert.Error(t, err)
}

func TestFotosDe(t *testing.T) {
	db := testDB(t)
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&models.Foto{
			TabelaOrigem:   models.OrigemGerador,
			RegistroID:     uint(i),
			CaminhoArquivo: fmt.Sprintf("geradores/%d.jpg", i),
		}).Error)
	}

	fts, err := database.FotosDe(db, models.OrigemGerador, []uint{1, 3})
	require.NoError(t, err)
	assert.Len(t, fts, 2)

	fts, err = database.FotosDe(db, models.OrigemGerador, nil)
	require.NoError(t, err)
	assert.Empty(t, fts)

	paths, err := database.DeleteFotosDe(db, models.OrigemGerador, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	var count int64
	db.Model(&models.Foto{}).Count(&count)
	assert.Zero(t, count)
}
