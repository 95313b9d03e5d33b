package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	syncengine "notion-calendar-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret   = "whsec-test"
	testDatabase = "11111111-2222-3333-4444-555555555555"
)

// fakeTrigger records dispatched runs.
type fakeTrigger struct {
	reasons []string
	opts    []syncengine.Options
}

func (f *fakeTrigger) TriggerAsync(reason string, opts syncengine.Options) {
	f.reasons = append(f.reasons, reason)
	f.opts = append(f.opts, opts)
}

func newTestApp(trigger *fakeTrigger) *fiber.App {
	app := fiber.New()
	handler := NewHandler(testSecret, testDatabase, trigger, zap.NewNop())
	handler.Register(app, "/notion/webhook")
	return app
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postDelivery(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/notion/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Notion-Signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHandler_ValidDeliveryDispatchesForcedSync(t *testing.T) {
	trigger := &fakeTrigger{}
	app := newTestApp(trigger)

	body := []byte(`{"entity": {"id": "page-9"}, "data": {"parent": {"database_id": "` + testDatabase + `"}}}`)
	resp := postDelivery(t, app, body, sign(testSecret, body))

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	require.Len(t, trigger.reasons, 1)
	assert.Equal(t, "webhook", trigger.reasons[0])
	assert.True(t, trigger.opts[0].Force)

	payload, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(payload), "accepted")
}

func TestHandler_UndashedDatabaseIDMatches(t *testing.T) {
	trigger := &fakeTrigger{}
	app := newTestApp(trigger)

	undashed := "1111111122223333444455555555" + "5555"
	body := []byte(`{"database_id": "` + undashed + `"}`)
	resp := postDelivery(t, app, body, sign(testSecret, body))

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Len(t, trigger.reasons, 1)
}

func TestHandler_BadSignatureRejected(t *testing.T) {
	trigger := &fakeTrigger{}
	app := newTestApp(trigger)

	body := []byte(`{"database_id": "` + testDatabase + `"}`)

	t.Run("wrong secret", func(t *testing.T) {
		resp := postDelivery(t, app, body, sign("wrong-secret", body))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		resp := postDelivery(t, app, body, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	assert.Empty(t, trigger.reasons)
}

func TestHandler_UnsetSecretRejectsEverything(t *testing.T) {
	trigger := &fakeTrigger{}
	app := fiber.New()
	NewHandler("", testDatabase, trigger, zap.NewNop()).Register(app, "/notion/webhook")

	body := []byte(`{"database_id": "` + testDatabase + `"}`)
	resp := postDelivery(t, app, body, sign("", body))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, trigger.reasons)
}

func TestHandler_DifferentDatabaseIgnored(t *testing.T) {
	trigger := &fakeTrigger{}
	app := newTestApp(trigger)

	body := []byte(`{"data": {"parent": {"database_id": "99999999-8888-7777-6666-555555555555"}}}`)
	resp := postDelivery(t, app, body, sign(testSecret, body))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, trigger.reasons)

	payload, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(payload), "different_database")
}

func TestHandler_NoConfiguredDatabaseAcceptsAll(t *testing.T) {
	trigger := &fakeTrigger{}
	app := fiber.New()
	NewHandler(testSecret, "", trigger, zap.NewNop()).Register(app, "/notion/webhook")

	body := []byte(`{"anything": true}`)
	resp := postDelivery(t, app, body, sign(testSecret, body))

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Len(t, trigger.reasons, 1)
}

func TestHandler_HealthEndpoint(t *testing.T) {
	app := newTestApp(&fakeTrigger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandler_PathWithoutLeadingSlashNormalized(t *testing.T) {
	trigger := &fakeTrigger{}
	app := fiber.New()
	NewHandler(testSecret, "", trigger, zap.NewNop()).Register(app, "notion/webhook")

	body := []byte(`{}`)
	resp := postDelivery(t, app, body, sign(testSecret, body))
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}
