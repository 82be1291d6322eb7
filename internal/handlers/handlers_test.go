package handlers_test

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"opregistro/internal/config"
	"opregistro/internal/database"
	"opregistro/internal/handlers"
	"opregistro/internal/middleware"
	"opregistro/internal/models"
	"opregistro/internal/refdata"
	"opregistro/internal/uploads"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const senhaTeste = "senha-de-teste"

func init() {
	gin.SetMode(gin.TestMode)
}

// app reúne o roteador, o banco em memória e um pote de cookies para
// manter a sessão entre requisições do mesmo teste.
type app struct {
	engine      *gin.Engine
	db          *gorm.DB
	uploadsRoot string
	jar         map[string]*http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	uploadsRoot := t.TempDir()
	handlers.Setup(&config.Config{DBPath: filepath.Join(t.TempDir(), "teste.db"), MaxUploadMB: 4},
		refdata.Load(t.TempDir()), uploads.New(uploadsRoot, 4))

	r := gin.New()
	r.LoadHTMLGlob("../../web/templates/*.html")
	store := cookie.NewStore([]byte("segredo-de-teste"))
	r.Use(sessions.Sessions("op_session", store))
	r.Use(middleware.InjectUser())

	r.POST("/login", handlers.Login)
	auth := r.Group("/", middleware.RequireAuth())
	auth.GET("/", handlers.Index)
	auth.POST("/cadastro", handlers.CreateOrgao)
	auth.GET("/orgao/:id", handlers.VisualizarOrgao)
	auth.GET("/orgao/:id/editar", handlers.ShowEditar)
	auth.POST("/orgao/:id/editar", handlers.UpdateOrgao)
	auth.POST("/foto/:id/delete", handlers.DeleteFoto)

	return &app{engine: r, db: db, uploadsRoot: uploadsRoot, jar: map[string]*http.Cookie{}}
}

func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range a.jar {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		a.jar[ck.Name] = ck
	}
	return w
}

func (a *app) criarUsuario(t *testing.T, username string, nivel models.NivelAcesso, orgao string) *models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senhaTeste), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.Usuario{
		Username:      username,
		PasswordHash:  string(hash),
		NomeCompleto:  "Usuário de Teste",
		OrgaoProvedor: orgao,
		NivelAcesso:   nivel,
		Ativo:         true,
	}
	require.NoError(t, a.db.Create(u).Error)
	return u
}

func (a *app) login(t *testing.T, username string) {
	t.Helper()
	w := a.do(formReq("/login", url.Values{
		"username": {username},
		"password": {senhaTeste},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func (a *app) criarOrgao(t *testing.T, nome, sigla string) *models.OrgaoProvedor {
	t.Helper()
	o := &models.OrgaoProvedor{Nome: nome, Sigla: sigla}
	require.NoError(t, a.db.Create(o).Error)
	return o
}

// arquivosEmDisco conta os arquivos regulares sob a raiz de uploads.
func (a *app) arquivosEmDisco(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(a.uploadsRoot, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func formReq(target string, vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartReq(t *testing.T, target string, campos map[string]string, arquivos map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for campo, valor := range campos {
		require.NoError(t, w.WriteField(campo, valor))
	}
	for campo, nome := range arquivos {
		fw, err := w.CreateFormFile(campo, nome)
		require.NoError(t, err)
		_, err = fw.Write([]byte("conteudo de teste"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// cadastrador vinculado a um órgão não edita o cadastro de outro: a
// rota devolve para o painel com a flash de erro.
func TestEditarOrgaoDeOutroUsuarioRedireciona(t *testing.T) {
	a := newApp(t)
	a.criarOrgao(t, "9º BATALHÃO DE SUPRIMENTO", "9º B SUP")
	outro := a.criarOrgao(t, "4º DEPÓSITO DE SUPRIMENTO", "4º D SUP")
	a.criarUsuario(t, "resp9bsup", models.NivelCadastrador, "9º BATALHÃO DE SUPRIMENTO")
	a.login(t, "resp9bsup")

	w := a.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orgao/%d/editar", outro.ID), nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	home := a.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Você não tem permissão para editar este Órgão Provedor.")

	// o POST da edição cai na mesma barreira
	w = a.do(formReq(fmt.Sprintf("/orgao/%d/editar", outro.ID), url.Values{
		"nome": {"4º DEPÓSITO DE SUPRIMENTO"},
	}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var contagem int64
	a.db.Model(&models.OrgaoProvedor{}).Count(&contagem)
	assert.EqualValues(t, 2, contagem)
}

func TestCadastroEVisualizacaoViaturas(t *testing.T) {
	a := newApp(t)
	a.criarUsuario(t, "resp9bsup", models.NivelCadastrador, "9º BATALHÃO DE SUPRIMENTO")
	a.login(t, "resp9bsup")

	placas := []string{"VTR0001", "VTR0002", "VTR0003"}
	viaturas := fmt.Sprintf(`[
		{"categoria":"operacional","tipo_veiculo":"vte_bau","especializacao":"Baú Seco","placa":"%s","capacidade_carga_kg":"3.500,5"},
		{"categoria":"operacional","tipo_veiculo":"vte_bau","especializacao":"Baú Frigorífico","placa":"%s"},
		{"categoria":"administrativa","tipo_veiculo":"vtne","placa":"%s"}
	]`, placas[0], placas[1], placas[2])

	w := a.do(formReq("/cadastro", url.Values{
		"nome":             {"9º BATALHÃO DE SUPRIMENTO"},
		"sigla":            {"9º B SUP"},
		"classes_provedor": {"Classe I"},
		"efetivo":          {"1200"},
		"viaturas":         {viaturas},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	require.Regexp(t, `^/orgao/\d+$`, loc)

	view := a.do(httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), "cadastrado com sucesso")
	for _, placa := range placas {
		assert.Contains(t, view.Body.String(), placa)
	}

	var orgao models.OrgaoProvedor
	require.NoError(t, a.db.Preload("Viaturas").Where("nome = ?", "9º BATALHÃO DE SUPRIMENTO").First(&orgao).Error)
	assert.Equal(t, 1200, orgao.EfetivoAtendimento)
	require.Len(t, orgao.Viaturas, 3)
	gravadas := make([]string, 0, 3)
	for _, vt := range orgao.Viaturas {
		gravadas = append(gravadas, vt.Placa)
	}
	assert.ElementsMatch(t, placas, gravadas)
	assert.NotNil(t, orgao.Viaturas[0].CapacidadeCargaKg)
}

// cadastro que a transação desfaz não pode deixar arquivo de foto no
// disco: as linhas de foto voltam com o rollback, os arquivos saem pela
// limpeza do handler.
func TestCadastroDesfeitoNaoDeixaFotoOrfa(t *testing.T) {
	a := newApp(t)
	a.criarUsuario(t, "resp9bsup", models.NivelCadastrador, "9º BATALHÃO DE SUPRIMENTO")
	a.login(t, "resp9bsup")

	w := a.do(multipartReq(t, "/cadastro", map[string]string{
		"nome":     "9º BATALHÃO DE SUPRIMENTO",
		"sigla":    "9º B SUP",
		"viaturas": `[{"categoria":"operacional","tipo_veiculo":"vte_bau","placa":"ORF0001"}]`,
		"energia":  `{não é um array`,
	}, map[string]string{
		"viatura_fotos_0": "vtr.jpg",
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cadastro", w.Header().Get("Location"))

	var contagem int64
	a.db.Model(&models.OrgaoProvedor{}).Count(&contagem)
	assert.Zero(t, contagem)
	a.db.Model(&models.Viatura{}).Count(&contagem)
	assert.Zero(t, contagem)
	a.db.Model(&models.Foto{}).Count(&contagem)
	assert.Zero(t, contagem)
	assert.Zero(t, a.arquivosEmDisco(t), "nenhum arquivo pode sobrar após o rollback")
}

// a exclusão de foto por id só alcança fotos do órgão que o usuário
// pode editar.
func TestExcluirFotoDeOutroOrgaoNegada(t *testing.T) {
	a := newApp(t)
	a.criarOrgao(t, "9º BATALHÃO DE SUPRIMENTO", "9º B SUP")
	outro := a.criarOrgao(t, "4º DEPÓSITO DE SUPRIMENTO", "4º D SUP")

	vt := models.Viatura{OrgaoProvedorID: outro.ID, Categoria: "operacional", TipoVeiculo: "vte_bau", Placa: "FOT0001"}
	require.NoError(t, a.db.Create(&vt).Error)
	foto := models.Foto{TabelaOrigem: models.OrigemViatura, RegistroID: vt.ID, CaminhoArquivo: "viaturas/x.jpg"}
	require.NoError(t, a.db.Create(&foto).Error)

	a.criarUsuario(t, "resp9bsup", models.NivelCadastrador, "9º BATALHÃO DE SUPRIMENTO")
	a.login(t, "resp9bsup")

	w := a.do(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/foto/%d/delete", foto.ID), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var contagem int64
	a.db.Model(&models.Foto{}).Count(&contagem)
	assert.EqualValues(t, 1, contagem, "a foto de outro órgão permanece")

	// administrador exclui qualquer foto
	b := &app{engine: a.engine, db: a.db, uploadsRoot: a.uploadsRoot, jar: map[string]*http.Cookie{}}
	b.criarUsuario(t, "admin-teste", models.NivelAdmin, "")
	b.login(t, "admin-teste")
	w = b.do(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/foto/%d/delete", foto.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	a.db.Model(&models.Foto{}).Count(&contagem)
	assert.Zero(t, contagem)
}

// fotos_excluir com id de foto de outro órgão é ignorado na edição.
func TestEditarNaoExcluiFotoDeOutroOrgao(t *testing.T) {
	a := newApp(t)
	meu := a.criarOrgao(t, "9º BATALHÃO DE SUPRIMENTO", "9º B SUP")
	outro := a.criarOrgao(t, "4º DEPÓSITO DE SUPRIMENTO", "4º D SUP")

	vt := models.Viatura{OrgaoProvedorID: outro.ID, Categoria: "operacional", TipoVeiculo: "vte_bau", Placa: "FOT0002"}
	require.NoError(t, a.db.Create(&vt).Error)
	foto := models.Foto{TabelaOrigem: models.OrigemViatura, RegistroID: vt.ID, CaminhoArquivo: "viaturas/y.jpg"}
	require.NoError(t, a.db.Create(&foto).Error)

	a.criarUsuario(t, "resp9bsup", models.NivelCadastrador, "9º BATALHÃO DE SUPRIMENTO")
	a.login(t, "resp9bsup")

	w := a.do(formReq(fmt.Sprintf("/orgao/%d/editar", meu.ID), url.Values{
		"nome":          {"9º BATALHÃO DE SUPRIMENTO"},
		"fotos_excluir": {fmt.Sprintf("[%d]", foto.ID)},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/orgao/%d", meu.ID), w.Header().Get("Location"))

	var contagem int64
	a.db.Model(&models.Foto{}).Count(&contagem)
	assert.EqualValues(t, 1, contagem, "a foto do outro órgão permanece")
}
