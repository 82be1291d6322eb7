package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opregistro/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoginRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.LoginRateLimiter(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codigo := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, codigo())
	assert.Equal(t, http.StatusOK, codigo())
	assert.Equal(t, http.StatusTooManyRequests, codigo())

	// outro IP tem janela própria
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.9.9.9:5555"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func engineComSessao() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("segredo-de-teste"))
	r.Use(sessions.Sessions("op_session", store))
	return r
}

func TestRequireAuthSemSessao(t *testing.T) {
	r := engineComSessao()
	r.GET("/protegida", middleware.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protegida", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthComSessao(t *testing.T) {
	r := engineComSessao()
	r.GET("/entrar", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set("user_id", uint(1))
		_ = sess.Save()
		c.Status(http.StatusOK)
	})
	r.GET("/protegida", middleware.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/entrar", nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminAPIBloqueiaNaoAdmin(t *testing.T) {
	r := engineComSessao()
	r.GET("/entrar", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set("user_id", uint(2))
		sess.Set("nivel_acesso", "cadastrador")
		_ = sess.Save()
		c.Status(http.StatusOK)
	})
	r.GET("/api/admin", middleware.RequireAdminAPI(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/entrar", nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
