package serverutils

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cortex-analyst-be/pkg/analyst"
	"cortex-analyst-be/pkg/apperror"
	"cortex-analyst-be/pkg/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Fields: map[string]string{"value": "is required"}}, http.StatusBadRequest},
		{"invalid vote", apperror.ErrInvalidVote, http.StatusBadRequest},
		{"fiber error", fiber.NewError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge},
		{"missing identity", orchestrator.ErrMissingIdentity, http.StatusUnauthorized},
		{"configuration", &apperror.ConfigurationError{AppID: 1, Reason: "no model"}, http.StatusConflict},
		{"not found", &apperror.NotFoundError{Resource: "app", Key: "9"}, http.StatusNotFound},
		{"analyst", &analyst.Error{Status: 503, Detail: "down"}, http.StatusBadGateway},
		{"persistence", apperror.Persistence("list bookmarks", errors.New("broken pipe")), http.StatusServiceUnavailable},
		{"wrapped not found", fmt.Errorf("load: %w", &apperror.NotFoundError{Resource: "app", Key: "9"}), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

type voteBody struct {
	Value int    `validate:"required,oneof=1 -1"`
	Lang  string `validate:"max=8"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(voteBody{Value: -1, Lang: "FR"}))

	err := ValidateRequest(voteBody{Value: 2, Lang: "much-too-long"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be one of [1 -1]", verr.Fields["value"])
	assert.Equal(t, "must be at most 8 characters", verr.Fields["lang"])
}

func newIdentityApp(cfg IdentityConfig) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nopLogger{}))
	app.Use(IdentityMiddleware(cfg))
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		return ctx.SendString(Username(ctx))
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestIdentityMiddleware(t *testing.T) {
	app := newIdentityApp(IdentityConfig{JWTSecret: "s3cret"})
	exp := time.Now().Add(time.Hour).Unix()

	status, body := whoami(t, app, map[string]string{"X-Remote-User": " alice "})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body)

	status, body = whoami(t, app, map[string]string{"Authorization": signed(t, "s3cret", jwt.MapClaims{"username": "bob", "exp": exp})})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob", body)

	// the ambient header wins over a token
	_, body = whoami(t, app, map[string]string{
		"X-Remote-User": "alice",
		"Authorization": signed(t, "s3cret", jwt.MapClaims{"username": "bob", "exp": exp}),
	})
	assert.Equal(t, "alice", body)

	status, _ = whoami(t, app, map[string]string{"Authorization": signed(t, "wrong", jwt.MapClaims{"username": "eve", "exp": exp})})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = whoami(t, app, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestIdentityMiddleware_TokensIgnoredWithoutSecret(t *testing.T) {
	app := newIdentityApp(IdentityConfig{Header: "X-User"})

	status, body := whoami(t, app, map[string]string{"Authorization": "Bearer whatever"})
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)

	_, body = whoami(t, app, map[string]string{"X-User": "carol"})
	assert.Equal(t, "carol", body)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
