package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"veltahq.com/accounts/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService(t *testing.T) *token.Service {
	t.Helper()
	ts, err := token.New(token.Config{
		Secret:     testSecret,
		Issuer:     "accounts-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("token.New() failed: %v", err)
	}
	return ts
}

func newTestApp(t *testing.T, ts *token.Service) *fiber.App {
	t.Helper()
	app := fiber.New()

	app.Get("/me", RequireAuth(ts), func(c *fiber.Ctx) error {
		id, _ := IdentityFromCtx(c)
		return c.JSON(id)
	})
	app.Get("/admin", RequireAuth(ts), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("admin ok")
	})
	app.Get("/staff", RequireAuth(ts), RequireRole(token.RoleAdmin, token.RoleModerator), func(c *fiber.Ctx) error {
		return c.SendString("staff ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

// envelope is the uniform failure shape every rejected request must carry.
type envelope struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failure body is not the JSON envelope: %v (%s)", err, body)
	}
	if env.Kind == "" || env.Message == "" {
		t.Fatalf("envelope missing error or message: %s", body)
	}
	return env
}

func TestSchemeEnforcement(t *testing.T) {
	ts := newTestTokenService(t)
	app := newTestApp(t, ts)

	valid, err := ts.Sign(token.SignInput{SubjectID: "42"}, token.AccessToken)
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Token abc"},
		{"lowercase bearer", "bearer " + valid},
		{"bare scheme", "Bearer"},
		{"empty token", "Bearer "},
		{"implausibly short token", "Bearer abc"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, "/me", tc.header)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d; want 401", resp.StatusCode)
			}
			env := decodeEnvelope(t, body)
			if env.Kind != "UNAUTHENTICATED" {
				t.Errorf("kind = %q; want UNAUTHENTICATED", env.Kind)
			}
			if got := resp.Header.Get(fiber.HeaderWWWAuthenticate); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q; want Bearer", got)
			}
		})
	}
}

func TestVerificationFailureMapping(t *testing.T) {
	ts := newTestTokenService(t)
	app := newTestApp(t, ts)

	valid, err := ts.Sign(token.SignInput{SubjectID: "42"}, token.AccessToken)
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}
	tampered := valid[:len(valid)-4] + "AAAA"
	if tampered == valid {
		tampered = valid[:len(valid)-4] + "BBBA"
	}

	refresh, err := ts.Sign(token.SignInput{SubjectID: "42"}, token.RefreshToken)
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}

	cases := []struct {
		name     string
		token    string
		wantKind string
	}{
		{"not a token at all", strings.Repeat("x", 40), "MALFORMED"},
		{"tampered signature", tampered, "INVALID_SIGNATURE"},
		{"expired token", expiredToken(t), "EXPIRED"},
		{"refresh token as bearer credential", refresh, "INVALID_TOKEN_TYPE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, "/me", "Bearer "+tc.token)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d; want 401", resp.StatusCode)
			}
			env := decodeEnvelope(t, body)
			if env.Kind != tc.wantKind {
				t.Errorf("kind = %q; want %q", env.Kind, tc.wantKind)
			}
			if strings.Contains(string(body), tc.token) {
				t.Error("failure response echoes the presented token")
			}
			if got := resp.Header.Get(fiber.HeaderWWWAuthenticate); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q; want Bearer", got)
			}
		})
	}
}

// expiredToken signs a token whose expiry is well past even the leeway
// window, directly with the library so the clock cannot get in the way.
func expiredToken(t *testing.T) string {
	t.Helper()
	past := time.Now().Add(-2 * time.Hour)
	claims := token.Claims{
		TokenType: token.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired-test",
			Issuer:    "accounts-test",
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(15 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return signed
}

func TestIdentityReachesHandler(t *testing.T) {
	ts := newTestTokenService(t)
	app := newTestApp(t, ts)

	signed, err := ts.Sign(token.SignInput{SubjectID: "42", Email: "a@example.com", Role: token.RoleAdmin}, token.AccessToken)
	if err != nil {
		t.Fatalf("Sign() failed: %v", err)
	}

	resp, body := doRequest(t, app, "/me", "Bearer "+signed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", resp.StatusCode, body)
	}

	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		t.Fatalf("decode identity: %v", err)
	}
	if id.SubjectID != "42" || id.Email != "a@example.com" || id.Role != token.RoleAdmin {
		t.Errorf("identity = %+v; want subject 42, email a@example.com, role admin", id)
	}
}

func TestRoleGate(t *testing.T) {
	ts := newTestTokenService(t)
	app := newTestApp(t, ts)

	sign := func(role token.Role) string {
		t.Helper()
		signed, err := ts.Sign(token.SignInput{SubjectID: "42", Role: role}, token.AccessToken)
		if err != nil {
			t.Fatalf("Sign() failed: %v", err)
		}
		return signed
	}

	cases := []struct {
		name       string
		path       string
		role       token.Role
		wantStatus int
		wantKind   string
	}{
		{"user on admin route", "/admin", token.RoleUser, http.StatusForbidden, "FORBIDDEN"},
		{"no role on admin route", "/admin", "", http.StatusForbidden, "FORBIDDEN"},
		{"moderator on admin route", "/admin", token.RoleModerator, http.StatusForbidden, "FORBIDDEN"},
		{"admin on admin route", "/admin", token.RoleAdmin, http.StatusOK, ""},
		{"moderator on staff route", "/staff", token.RoleModerator, http.StatusOK, ""},
		{"user on staff route", "/staff", token.RoleUser, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, tc.path, "Bearer "+sign(tc.role))
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d; want %d (%s)", resp.StatusCode, tc.wantStatus, body)
			}
			if tc.wantKind != "" {
				env := decodeEnvelope(t, body)
				if env.Kind != tc.wantKind {
					t.Errorf("kind = %q; want %q", env.Kind, tc.wantKind)
				}
			}
		})
	}
}

func TestRoleGateWithoutInterceptor(t *testing.T) {
	app := fiber.New()
	// Misconfigured chain: the gate without RequireAuth in front.
	app.Get("/orphan", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("should never run")
	})

	resp, body := doRequest(t, app, "/orphan", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", resp.StatusCode)
	}
	env := decodeEnvelope(t, body)
	if env.Kind != "UNAUTHENTICATED" {
		t.Errorf("kind = %q; want UNAUTHENTICATED", env.Kind)
	}
}
