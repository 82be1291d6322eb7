package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"opregistro/internal/models"
	"opregistro/internal/uploads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader monta um *multipart.FileHeader real a partir de um corpo
// multipart, como o gin faria.
func fileHeader(t *testing.T, nome string, conteudo []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("foto", nome)
	require.NoError(t, err)
	_, err = fw.Write(conteudo)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["foto"][0]
}

func TestAllowed(t *testing.T) {
	assert.True(t, uploads.Allowed("foto.jpg"))
	assert.True(t, uploads.Allowed("DOCUMENTO.PDF"))
	assert.True(t, uploads.Allowed("planta.jpeg"))
	assert.False(t, uploads.Allowed("script.sh"))
	assert.False(t, uploads.Allowed("malware.exe"))
	assert.False(t, uploads.Allowed("sem_extensao"))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foto normal.jpg", "foto_normal.jpg"},
		{"../../etc/passwd", "passwd"},
		{"depósito ção.png", "dep_sito___o.png"},
		{"...", "arquivo"},
		{"a-b_c.9.gif", "a-b_c.9.gif"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, uploads.SanitizeName(tt.in), "entrada %q", tt.in)
	}
}

func TestSaveRemove(t *testing.T) {
	m := uploads.New(t.TempDir(), 1)
	fh := fileHeader(t, "frota.jpg", []byte("conteudo-de-teste"))

	rel, err := m.Save(fh, models.OrigemViatura, "12")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "viaturas/12_"), "caminho %q", rel)
	assert.True(t, strings.HasSuffix(rel, "_frota.jpg"))

	full, err := m.Resolve(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "conteudo-de-teste", string(data))

	m.Remove(rel)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// remover de novo não é erro
	m.Remove(rel)
}

func TestSaveRejeicoes(t *testing.T) {
	m := uploads.New(t.TempDir(), 1)

	_, err := m.Save(fileHeader(t, "script.sh", []byte("#!/bin/sh")), models.OrigemViatura, "1")
	assert.Error(t, err)

	grande := bytes.Repeat([]byte("x"), 2<<20)
	_, err = m.Save(fileHeader(t, "grande.jpg", grande), models.OrigemViatura, "1")
	assert.Error(t, err)

	_, err = m.Save(fileHeader(t, "ok.jpg", []byte("x")), "origem_invalida", "1")
	assert.Error(t, err)
}

func TestResolveTraversal(t *testing.T) {
	root := t.TempDir()
	m := uploads.New(root, 1)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "viaturas"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "viaturas", "a.jpg"), []byte("x"), 0o644))

	full, err := m.Resolve("viaturas/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "viaturas", "a.jpg"), full)

	// caminhos com ../ são confinados à raiz; nunca escapam dela
	full, err = m.Resolve("../../etc/passwd")
	if err == nil {
		assert.True(t, strings.HasPrefix(full, root))
	}
}
