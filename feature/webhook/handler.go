package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"notion-calendar-sync/core/logger"
	syncengine "notion-calendar-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// signatureHeader carries Notion's delivery signature: "sha256=" followed by
// the hex HMAC-SHA256 of the raw body under the shared secret.
const signatureHeader = "X-Notion-Signature"

// Trigger dispatches a detached sync run. Satisfied by *sync.Runner.
type Trigger interface {
	TriggerAsync(reason string, opts syncengine.Options)
}

// Handler serves the Notion webhook endpoint.
type Handler struct {
	secret     string
	databaseID string
	trigger    Trigger
	log        *zap.Logger
}

// NewHandler creates the webhook handler. databaseID is the mirrored
// database; deliveries about other databases are acknowledged but ignored.
func NewHandler(secret, databaseID string, trigger Trigger, log *zap.Logger) *Handler {
	return &Handler{secret: secret, databaseID: databaseID, trigger: trigger, log: log}
}

// Register mounts the webhook route and the health check on the app.
func (h *Handler) Register(app *fiber.App, path string) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	app.Post(path, h.handleDelivery)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
}

func (h *Handler) handleDelivery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	if !h.verifySignature(c.Body(), c.Get(signatureHeader)) {
		l.Warn("Rejected webhook delivery with bad signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var payload any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		payload = nil
	}

	if !h.targetsDatabase(payload) {
		l.Info("Ignored webhook delivery for a different database")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ignored",
			"reason": "different_database",
		})
	}

	// The notification told us something changed, so the triggered run
	// forces past the fingerprint short-circuit.
	h.trigger.TriggerAsync("webhook", syncengine.Options{Force: true})
	l.Info("Accepted webhook delivery, sync dispatched")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// verifySignature checks the delivery signature. An unset secret rejects
// everything: an unauthenticated endpoint that mutates a calendar is worse
// than a dead one.
func (h *Handler) verifySignature(body []byte, header string) bool {
	if h.secret == "" || header == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header))
}

// targetsDatabase walks the payload for id-like fields referencing the
// mirrored database. Notion mixes dashed and undashed id forms, so both are
// normalized before comparing. With no configured database id every
// delivery counts.
func (h *Handler) targetsDatabase(payload any) bool {
	if h.databaseID == "" {
		return true
	}

	target := strings.ReplaceAll(h.databaseID, "-", "")
	found := false

	var walk func(node any)
	walk = func(node any) {
		if found {
			return
		}
		switch n := node.(type) {
		case map[string]any:
			for k, v := range n {
				if k == "database_id" || k == "parent_id" || k == "id" {
					if s, ok := v.(string); ok && strings.ReplaceAll(s, "-", "") == target {
						found = true
						return
					}
				}
				walk(v)
			}
		case []any:
			for _, item := range n {
				walk(item)
			}
		}
	}
	walk(payload)

	return found
}
