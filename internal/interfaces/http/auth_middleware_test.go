package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/slick-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/slick-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "user_2abc"
	testOrgID     = "org_2xyz"
	testIssuer    = "slick-api-test"
	testExpMin    = 60
)

// fakeAdmins implementa el chequeo de admin con un conjunto fijo de subjects.
type fakeAdmins struct {
	admins map[string]bool
	err    error
}

func (f fakeAdmins) IsAdmin(_ context.Context, id pkgjwt.Identity) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return id.Role == "admin" && f.admins[id.UserID], nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - /admin: AuthMiddleware + RequireAdmin
//   - /org: AuthMiddleware + RequireActiveOrg
//   - /me: AuthMiddleware, devuelve la identidad
func buildTestApp(checker fakeAdmins) *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) }
	app.Get("/admin", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireAdmin(checker), ok)
	app.Get("/org", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireActiveOrg(), ok)
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		id, _ := apphttp.GetIdentity(c)
		return c.JSON(fiber.Map{"user_id": id.UserID, "org_id": apphttp.GetOrgID(c), "org_role": id.OrgRole})
	})
	return app
}

func token(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, id, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin_AdminRegistradoAccede(t *testing.T) {
	app := buildTestApp(fakeAdmins{admins: map[string]bool{testUserID: true}})
	resp := doRequest(t, app, "/admin", token(t, pkgjwt.Identity{UserID: testUserID, Role: "admin"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdmin_RolAdminSinUsuarioLocal_403(t *testing.T) {
	app := buildTestApp(fakeAdmins{admins: map[string]bool{}})
	resp := doRequest(t, app, "/admin", token(t, pkgjwt.Identity{UserID: testUserID, Role: "admin"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireAdmin_FalloDeDB_503(t *testing.T) {
	app := buildTestApp(fakeAdmins{err: errors.New("db caída")})
	resp := doRequest(t, app, "/admin", token(t, pkgjwt.Identity{UserID: testUserID, Role: "admin"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireActiveOrg
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireActiveOrg_SinOrganizacion_403(t *testing.T) {
	app := buildTestApp(fakeAdmins{})
	resp := doRequest(t, app, "/org", token(t, pkgjwt.Identity{UserID: testUserID}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_ORGANIZATION")
}

func TestRequireActiveOrg_ConOrganizacion_200(t *testing.T) {
	app := buildTestApp(fakeAdmins{})
	resp := doRequest(t, app, "/org", token(t, pkgjwt.Identity{UserID: testUserID, OrgID: testOrgID, OrgRole: "org:detailer"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(fakeAdmins{}), "/me", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(fakeAdmins{}), "/me", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(fakeAdmins{}), "/me", "Basic abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := doRequest(t, buildTestApp(fakeAdmins{}), "/me",
		token(t, pkgjwt.Identity{UserID: testUserID, OrgID: testOrgID, OrgRole: "org:client"}))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testOrgID, body["org_id"])
	assert.Equal(t, "org:client", body["org_role"])
}
