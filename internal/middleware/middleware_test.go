package middleware

import (
	"coffee_platform/internal/domain"
	"coffee_platform/internal/testutil"
	"coffee_platform/internal/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIssuer() *utils.TokenIssuer {
	return utils.NewTokenIssuer(utils.TokenSecrets{UserAccess: "a", UserRefresh: "r", UserRegister: "g", AdminAccess: "aa", AdminRefresh: "ar"})
}

func perform(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSplitBearer(t *testing.T) {
	tok, kind, ok := splitBearer("Bearer abc.def type=register")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)
	assert.Equal(t, "register", kind)

	tok, kind, ok = splitBearer("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)
	assert.Empty(t, kind)

	_, _, ok = splitBearer("Basic abc")
	assert.False(t, ok)
	_, _, ok = splitBearer("Bearer ")
	assert.False(t, ok)
}

func TestTokenAuthRegisterRoute(t *testing.T) {
	issuer := testIssuer()
	r := gin.New()
	r.GET("/", TokenAuth(issuer, utils.ActorUser, utils.KindRegister), func(c *gin.Context) {
		claims, ok := Claims(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Identifier.Value)
	})

	id := domain.EmailIdentifier("a@example.com")
	register, err := issuer.Issue(utils.ActorUser, utils.KindRegister, utils.Claims{Identifier: &id})
	require.NoError(t, err)
	access, err := issuer.Issue(utils.ActorUser, utils.KindAccess, utils.Claims{ID: 1})
	require.NoError(t, err)
	refresh, err := issuer.Issue(utils.ActorUser, utils.KindRefresh, utils.Claims{ID: 1})
	require.NoError(t, err)

	w := perform(r, "Bearer "+register+" type=register")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", w.Body.String())

	assert.Equal(t, http.StatusOK, perform(r, "Bearer "+register).Code)

	for name, header := range map[string]string{
		"no header":          "",
		"access token":       "Bearer " + access,
		"refresh token":      "Bearer " + refresh,
		"mismatched suffix":  "Bearer " + register + " type=access",
		"access with suffix": "Bearer " + access + " type=register",
		"garbage":            "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			w := perform(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	gdb := testutil.DB(t)
	issuer := testIssuer()
	admin := domain.Admin{Username: "root", Password: "x"}
	require.NoError(t, gdb.Create(&admin).Error)

	r := gin.New()
	r.GET("/", TokenAuth(issuer, utils.ActorAdmin, utils.KindAccess), AdminOnly(gdb), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	good, err := issuer.Issue(utils.ActorAdmin, utils.KindAccess, utils.Claims{ID: admin.ID})
	require.NoError(t, err)
	ghost, err := issuer.Issue(utils.ActorAdmin, utils.KindAccess, utils.Claims{ID: admin.ID + 1})
	require.NoError(t, err)
	user, err := issuer.Issue(utils.ActorUser, utils.KindAccess, utils.Claims{ID: admin.ID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, perform(r, "Bearer "+good).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, "Bearer "+ghost).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Bearer "+user).Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := gin.New()
	r.GET("/", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, "").Code)
	assert.Equal(t, http.StatusOK, perform(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, "").Code)

	limiter.Sweep(0)
	assert.Equal(t, http.StatusOK, perform(r, "").Code, "swept visitors start with a full bucket")
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	metrics := NewMetrics()
	r := gin.New()
	r.Use(RequestLogger(), metrics.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", metrics.Handler())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `coffeeme_http_requests_total{method="GET",route="/ping",status="200"} 2`), body)
}
