package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contextPkg "FitnessGolang/pkg/context"
	jwtPkg "FitnessGolang/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newTestMiddleware(t *testing.T) *middleware {
	t.Helper()
	t.Setenv(jwtPkg.AccessTokenSecretEnv, testSecret)
	t.Setenv("APP_ENV", "test")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger).(*middleware)
}

func signToken(t *testing.T) string {
	t.Helper()
	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":    "01HUSER",
		"email": "ana@example.com",
		"name":  "Ana",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func newApp(m *middleware, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/me", guard, func(c *fiber.Ctx) error {
		userID := contextPkg.GetUserID(c.UserContext())
		if userID == "" {
			return c.SendString("anonymous")
		}
		return c.SendString(userID)
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestTokenMiddleware(t *testing.T) {
	m := newTestMiddleware(t)
	app := newApp(m, m.NewTokenMiddleware)
	token := signToken(t)

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
		body   string
	}{
		{
			name: "bearer header",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/me", nil)
				r.Header.Set("Authorization", "Bearer "+token)
				return r
			},
			status: http.StatusOK,
			body:   "01HUSER",
		},
		{
			name: "query token",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
			},
			status: http.StatusOK,
			body:   "01HUSER",
		},
		{
			name: "missing",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/me", nil)
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "garbage",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/me", nil)
				r.Header.Set("Authorization", "Bearer not-a-jwt")
				return r
			},
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.req())
			assert.Equal(t, tt.status, status)
			if tt.body != "" {
				assert.Equal(t, tt.body, body)
			}
		})
	}
}

func TestOptionalTokenMiddleware(t *testing.T) {
	m := newTestMiddleware(t)
	app := newApp(m, m.NewOptionalTokenMiddleware)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t))
	status, body = do(t, app, r)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "01HUSER", body)

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer broken")
	status, _ = do(t, app, r)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddleware(t)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDKey)
	assert.Len(t, generated, 26)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDKey, "client-id")
	_, body := do(t, app, r)
	assert.Equal(t, "client-id", body)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDKey, "bad id with spaces")
	_, body = do(t, app, r)
	assert.Len(t, body, 26)
}

func TestRateLimiter(t *testing.T) {
	m := newTestMiddleware(t)
	m.rateLimitter = newRateLimiter(0, 2)

	app := fiber.New()
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, status)
	}
	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, body, "TOO_MANY_REQUESTS")
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody("/api/v1/auth/login", `{"email":"a@b.c","password":"hunter2"}`)
	assert.Contains(t, out, `"password":"[SECRET]"`)
	assert.Contains(t, out, `"email":"a@b.c"`)

	out = sanitizeRequestBody("/api/v1/workout/sessions/x/poses", `{"poses":[{},{},{}]}`)
	assert.Equal(t, `{"poses":3}`, out)

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody("/", "plain"))
}
