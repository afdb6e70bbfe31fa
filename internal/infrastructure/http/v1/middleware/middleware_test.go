package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/domain/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLocale(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{name: "default", want: "en_US"},
		{name: "accept language", header: "fr-FR,fr;q=0.9", want: "fr_FR"},
		{name: "query wins", header: "fr-FR", query: "?lang=en", want: "en_US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Locale())
			r.GET("/", func(c *gin.Context) {
				c.String(http.StatusOK, appctx.GetLocale(c.Request.Context()))
			})

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get(HeaderContentLanguage))
		})
	}
}

func TestAuth(t *testing.T) {
	jwt := auth.NewJWTService(auth.DefaultJWTConfig("secret"))
	token, _, err := jwt.GenerateAccessToken(appctx.UserContext{
		UserID:      "u1",
		CompanyID:   "c1",
		CompanyIDs:  []string{"c2"},
		Permissions: []string{"sale_type:read", "invoice:*"},
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		auth        string
		company     string
		permission  string
		wantStatus  int
		wantCompany string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "bad scheme", auth: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", auth: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "token company", auth: "Bearer " + token, wantStatus: http.StatusOK, wantCompany: "c1"},
		{name: "allowed company switch", auth: "Bearer " + token, company: "c2", wantStatus: http.StatusOK, wantCompany: "c2"},
		{name: "foreign company", auth: "Bearer " + token, company: "c3", wantStatus: http.StatusForbidden},
		{name: "missing permission", auth: "Bearer " + token, permission: "sale_type:delete", wantStatus: http.StatusForbidden},
		{name: "wildcard permission", auth: "Bearer " + token, permission: "invoice:post", wantStatus: http.StatusOK, wantCompany: "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.Use(Auth(jwt))
			handlers := []gin.HandlerFunc{}
			if tt.permission != "" {
				handlers = append(handlers, RequirePermission(tt.permission))
			}
			handlers = append(handlers, func(c *gin.Context) {
				c.String(http.StatusOK, appctx.GetCompanyID(c.Request.Context()))
			})
			r.GET("/", handlers...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.company != "" {
				req.Header.Set(HeaderCompanyID, tt.company)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCompany != "" {
				assert.Equal(t, tt.wantCompany, w.Body.String())
			}
		})
	}
}

func TestPermissionMatches(t *testing.T) {
	assert.True(t, permissionMatches("sale_type:*", "sale_type:update"))
	assert.True(t, permissionMatches("catalog:*", "catalog:sale_type:update"))
	assert.True(t, permissionMatches("catalog:sale_type:*", "catalog:sale_type:delete"))
	assert.False(t, permissionMatches("catalog:sale_type:*", "catalog:partner:read"))
	assert.True(t, permissionMatches("*", "invoice:post"))
	assert.True(t, permissionMatches("invoice:post", "invoice:post"))
	assert.False(t, permissionMatches("invoice:*", "sale_type:update"))
	assert.False(t, permissionMatches("invoice:read", "invoice:post"))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Locale())
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperror.NewMailTemplateMissing("sale.order", "o1"))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeMailTemplateMissing)
	assert.Contains(t, w.Body.String(), "rédigez le message manuellement")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
