package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuth(t *testing.T) *Auth {
	a, err := NewAuth("admin", "admin123", []byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return a
}

func protectedRouter(a *Auth) *gin.Engine {
	r := gin.New()
	r.GET("/secret", a.AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": GetAdmin(c)})
	})
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	a := setupAuth(t)

	_, _, err := a.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = a.Login("root", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, expires, err := a.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)
}

func TestAdminRequired(t *testing.T) {
	a := setupAuth(t)
	r := protectedRouter(a)

	w := get(r, "/secret", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/secret", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := a.Login("admin", "admin123")
	require.NoError(t, err)
	w = get(r, "/secret", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":"admin"}`, w.Body.String())
}

func TestAdminRequired_OtherSecret(t *testing.T) {
	a := setupAuth(t)
	other, err := NewAuth("admin", "admin123", []byte("another"), time.Hour)
	require.NoError(t, err)

	token, _, err := other.Login("admin", "admin123")
	require.NoError(t, err)
	w := get(protectedRouter(a), "/secret", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired_Expired(t *testing.T) {
	a := setupAuth(t)
	token, _, err := a.Login("admin", "admin123")
	require.NoError(t, err)

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	w := get(protectedRouter(a), "/secret", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	a := setupAuth(t)
	r := protectedRouter(a)
	token, _, err := a.Login("admin", "admin123")
	require.NoError(t, err)

	a.Logout(token)
	w := get(r, "/secret", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	fresh, _, err := a.Login("admin", "admin123")
	require.NoError(t, err)
	w = get(r, "/secret", map[string]string{"Authorization": "Bearer " + fresh})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NotPanics(t, func() { a.Logout("not-a-token") })
}

func TestSession(t *testing.T) {
	r := gin.New()
	r.Use(Session())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	w := get(r, "/", nil)
	issued := w.Header().Get(SessionHeader)
	_, err := uuid.Parse(issued)
	require.NoError(t, err)
	assert.Equal(t, issued, w.Body.String())

	w = get(r, "/", map[string]string{SessionHeader: issued})
	assert.Equal(t, issued, w.Body.String())

	w = get(r, "/", map[string]string{SessionHeader: "../../etc"})
	assert.NotEqual(t, "../../etc", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	get(r, "/ok?x=1", nil)
	get(r, "/boom", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "x=1", entries[0].ContextMap()["query"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
