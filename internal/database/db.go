package database

import (
	"os"
	"path/filepath"

	"opregistro/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open abre (ou cria) o arquivo de banco com chaves estrangeiras
// ativas. Em testes usa-se ":memory:".
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_foreign_keys=on"
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Migrate cria/atualiza as 11 tabelas e roda o passo aditivo de
// colunas para bancos antigos.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Usuario{},
		&models.OrgaoProvedor{},
		&models.Instalacao{},
		&models.Empilhadeira{},
		&models.SistemaSeguranca{},
		&models.EquipamentoUnitizacao{},
		&models.Gerador{},
		&models.EnergiaEletrica{},
		&models.Viatura{},
		&models.Pessoal{},
		&models.Foto{},
	)
	if err != nil {
		return err
	}
	return ensureColumns(db)
}

func Init(path string) {
	var err error
	DB, err = Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("arquivo", path).Msg("falha ao abrir o banco de dados")
	}
	log.Info().Str("arquivo", path).Msg("banco de dados aberto")

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("falha ao migrar o banco de dados")
	}

	createDefaultAdmin()
}

// ensureColumns garante, de forma apenas aditiva, colunas acrescentadas
// depois do schema inicial — bancos criados por versões antigas ganham
// as colunas sem perder dados.
func ensureColumns(db *gorm.DB) error {
	type col struct {
		model any
		field string
	}
	cols := []col{
		{&models.Usuario{}, "NomeGuerra"},
		{&models.Usuario{}, "PostoGraduacao"},
		{&models.Usuario{}, "OrgaoProvedor"},
		{&models.Usuario{}, "Email"},
		{&models.Usuario{}, "UltimoAcesso"},
		{&models.OrgaoProvedor{}, "UnidadeGestora"},
		{&models.OrgaoProvedor{}, "Codom"},
		{&models.OrgaoProvedor{}, "OMLicitacaoQS"},
		{&models.OrgaoProvedor{}, "OMLicitacaoQR"},
		{&models.OrgaoProvedor{}, "CapacidadeTotalToneladas"},
		{&models.OrgaoProvedor{}, "CapacidadeTotalToneladasSeco"},
		{&models.OrgaoProvedor{}, "CriadoPor"},
		{&models.OrgaoProvedor{}, "ClassesProvedor"},
		{&models.Instalacao{}, "CapacidadeToneladas"},
		{&models.Instalacao{}, "NomeIdentificacao"},
		{&models.Gerador{}, "ValorRecuperacao"},
		{&models.Viatura{}, "Especializacao"},
		{&models.Viatura{}, "TipoRefrigeracao"},
		{&models.Viatura{}, "TemperaturaMin"},
		{&models.Viatura{}, "TemperaturaMax"},
		{&models.Viatura{}, "NumeroInventario"},
		{&models.Viatura{}, "ValorRecuperacao"},
	}
	m := db.Migrator()
	for _, c := range cols {
		if !m.HasColumn(c.model, c.field) {
			if err := m.AddColumn(c.model, c.field); err != nil {
				return err
			}
		}
	}
	return nil
}

// admin inicial vem do ambiente; só é criado se ainda não existir
// nenhum administrador.
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := DB.Model(&models.Usuario{}).
		Where("nivel_acesso = ?", models.NivelAdmin).
		Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("falha ao verificar admin existente")
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("falha ao gerar hash do admin inicial")
		return
	}

	admin := models.Usuario{
		Username:       username,
		PasswordHash:   string(hash),
		NomeCompleto:   "Administrador do Sistema",
		NomeGuerra:     "Admin",
		PostoGraduacao: "Administrador",
		Email:          "admin@sistema.mil.br",
		NivelAcesso:    models.NivelAdmin,
		Ativo:          true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("falha ao criar admin inicial")
		return
	}
	log.Info().Str("username", username).Msg("usuário administrador inicial criado")
}
