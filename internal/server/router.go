package server

import (
	"net/http"

	"opregistro/internal/config"
	"opregistro/internal/handlers"
	"opregistro/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// New monta o roteador com sessões, middleware e todas as rotas.
func New(cfg *config.Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("proxies confiáveis inválidos")
	}

	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("op_session", store))
	r.Use(middleware.InjectUser())

	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow), handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/", middleware.RequireAuth())
	{
		auth.GET("/", handlers.Index)

		auth.GET("/cadastro", handlers.ShowCadastro)
		auth.POST("/cadastro", handlers.CreateOrgao)
		auth.GET("/orgao/:id", handlers.VisualizarOrgao)
		auth.GET("/orgao/:id/editar", handlers.ShowEditar)
		auth.POST("/orgao/:id/editar", handlers.UpdateOrgao)

		auth.GET("/perfil", handlers.Perfil)
		auth.POST("/editar_perfil", handlers.EditarPerfil)

		auth.GET("/api/buscar_ug_codom", handlers.BuscarUGCodom)
		auth.GET("/api/buscar_subordinacao", handlers.BuscarSubordinacao)
		auth.GET("/api/op/dados_automaticos", handlers.DadosAutomaticosOP)
		auth.POST("/cadastro/salvar", handlers.SalvarCadastro)
		auth.POST("/geradores/salvar", handlers.SalvarGeradores)
		auth.POST("/foto/:id/delete", handlers.DeleteFoto)

		auth.GET("/uploads/*filepath", handlers.ServeUpload)
	}

	admin := r.Group("/", middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.POST("/orgao/:id/delete", handlers.DeleteOrgao)
		admin.GET("/admin", handlers.AdminPanel)
		admin.GET("/usuarios", handlers.Usuarios)
		admin.GET("/cadastrar_usuario", handlers.ShowCadastrarUsuario)
		admin.POST("/cadastrar_usuario", handlers.CadastrarUsuario)
		admin.GET("/admin/relatorios", handlers.RelatorioCSVDownload)
		admin.GET("/admin/relatorios_viaturas_excel", handlers.RelatorioViaturasExcelDownload)
		admin.GET("/admin/relatorios_empilhadeiras_excel", handlers.RelatorioEmpilhadeirasExcelDownload)
		admin.GET("/admin/backup", handlers.Backup)
	}

	api := r.Group("/api", middleware.RequireAuth(), middleware.RequireAdminAPI())
	{
		api.GET("/usuario/:id", handlers.APIGetUsuario)
		api.PUT("/usuario/:id", handlers.APIToggleUsuario)
		api.DELETE("/usuario/:id", handlers.APIDeleteUsuario)
	}

	return r
}
