package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authz string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestJWTAuth(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotRole string
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotID, _ = UserID(c)
		gotRole, _ = c.Get(CtxRole).(string)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
	assert.Equal(t, "CUSTOMER", gotRole)
}

func TestJWTAuthRejects(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)

	cases := []struct {
		name  string
		authz string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer garbage"},
		{"wrong secret", "Bearer " + tok.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runProtected(t, tc.authz, JWTAuth(testSecret))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	staff, err := utils.NewAccessToken(testSecret, 1, "STAFF", 15)
	require.NoError(t, err)
	customer, err := utils.NewAccessToken(testSecret, 2, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+staff.Token, JWTAuth(testSecret), RequireRole("STAFF"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runProtected(t, "Bearer "+customer.Token, JWTAuth(testSecret), RequireRole("STAFF"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = runProtected(t, "Bearer "+customer.Token, JWTAuth(testSecret), RequireRole("STAFF", "CUSTOMER"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Role check without JWTAuth: no role claim in context.
	rec = runProtected(t, "", RequireRole("STAFF"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
