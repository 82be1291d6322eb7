package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"opregistro/internal/models"
)

var allowedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".pdf": {},
}

// dirs por origem da foto; caminhos gravados no banco usam '/'.
var origemDirs = map[string]string{
	models.OrigemInstalacao:            "instalacoes",
	models.OrigemEmpilhadeira:          "empilhadeiras",
	models.OrigemSistemaSeguranca:      "sistemas_seguranca",
	models.OrigemEquipamentoUnitizacao: "equipamentos_unitizacao",
	models.OrigemGerador:               "geradores",
	models.OrigemViatura:               "viaturas",
	models.OrigemAreaEdificavel:        "areas_edificaveis",
}

// Manager grava e remove arquivos de foto sob um diretório raiz com
// subdiretório por tipo de entidade.
type Manager struct {
	Root    string
	MaxSize int64 // bytes; 0 desliga o limite
}

func New(root string, maxSizeMB int64) *Manager {
	return &Manager{Root: root, MaxSize: maxSizeMB * 1024 * 1024}
}

// Allowed valida a extensão contra a lista de permitidas.
func Allowed(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// SanitizeName reduz o nome original a um componente de caminho seguro:
// só letras ASCII, dígitos, ponto, hífen e sublinhado sobrevivem.
func SanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "arquivo"
	}
	return out
}

// Save grava o upload sob o diretório da origem com um nome único
// (prefixo de identificação + uuid + nome saneado) e devolve o caminho
// relativo para gravação na tabela de fotos.
func (m *Manager) Save(fh *multipart.FileHeader, origem, prefixo string) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", fmt.Errorf("arquivo vazio")
	}
	if !Allowed(fh.Filename) {
		return "", fmt.Errorf("extensão não permitida: %s", filepath.Ext(fh.Filename))
	}
	if m.MaxSize > 0 && fh.Size > m.MaxSize {
		return "", fmt.Errorf("arquivo excede o tamanho máximo permitido")
	}

	dir, ok := origemDirs[origem]
	if !ok {
		return "", fmt.Errorf("origem de foto desconhecida: %s", origem)
	}

	nome := SanitizeName(fh.Filename)
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefixo != "" {
		nome = fmt.Sprintf("%s_%s_%s", prefixo, token, nome)
	} else {
		nome = fmt.Sprintf("%s_%s", token, nome)
	}

	fullDir := filepath.Join(m.Root, dir)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("criando diretório de upload: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("abrindo upload: %w", err)
	}
	defer src.Close()

	fullPath := filepath.Join(fullDir, nome)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("gravando upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("gravando upload: %w", err)
	}

	return path.Join(dir, nome), nil
}

// Remove apaga o arquivo de uma foto. Arquivo ausente não é erro,
// apenas registrado.
func (m *Manager) Remove(relPath string) {
	if relPath == "" {
		return
	}
	full := filepath.Join(m.Root, filepath.FromSlash(relPath))
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("arquivo", full).Msg("foto já não existia no disco")
			return
		}
		log.Error().Err(err).Str("arquivo", full).Msg("falha ao remover foto do disco")
	}
}

// Resolve devolve o caminho absoluto de um arquivo salvo, recusando
// tentativas de escapar da raiz de uploads.
func (m *Manager) Resolve(relPath string) (string, error) {
	clean := path.Clean("/" + relPath)
	full := filepath.Join(m.Root, filepath.FromSlash(clean))
	root, err := filepath.Abs(m.Root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if abs != root && !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("caminho fora da raiz de uploads")
	}
	return abs, nil
}
