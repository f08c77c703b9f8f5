package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/metrics"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/messaging"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Aegis-Signature"

const maxWebhookBodyBytes = 64 << 10

// WebhookHandler receives identity-provider change notifications. It is the
// trust boundary for provider-originated events: the shared-secret signature
// is verified over the raw body before the payload is even parsed, and the
// schema is validated before anything reaches a command handler.
type WebhookHandler struct {
	secret    []byte
	handler   command.ProcessIdentityEventHandler
	publisher messaging.EventPublisher
	logger    *zap.Logger
}

// NewWebhookHandler creates the webhook receiver.
func NewWebhookHandler(secret []byte, handler command.ProcessIdentityEventHandler, publisher messaging.EventPublisher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		handler:   handler,
		publisher: publisher,
		logger:    logger,
	}
}

// identityEventPayload is the provider's wire schema.
type identityEventPayload struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	UserID        string   `json:"user_id"`
	ChangedFields []string `json:"changed_fields"`
	Timestamp     string   `json:"timestamp"`
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.reject(w, r, "unreadable body")
		return
	}

	if !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		h.reject(w, r, "signature mismatch")
		return
	}

	var payload identityEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.rejectSchema(w, "malformed payload")
		return
	}

	cmd, schemaErr := h.toCommand(payload)
	if schemaErr != "" {
		h.rejectSchema(w, schemaErr)
		return
	}

	result, err := h.handler.Handle(r.Context(), cmd)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookOutcomeFailed).Inc()
		h.logger.Error("identity event processing failed",
			zap.String("event_id", cmd.EventID),
			zap.String("event_type", cmd.EventType),
			zap.Error(err),
		)
		// Non-2xx tells the provider to redeliver. Revocation writes are
		// idempotent, so replays are safe.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "processing failed"})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookOutcomeAccepted).Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"revoked": result.Revoked})
}

// verifySignature checks the hex HMAC-SHA256 of the raw body in constant time.
func (h *WebhookHandler) verifySignature(body []byte, presented string) bool {
	if len(h.secret) == 0 || presented == "" {
		return false
	}

	decoded, err := hex.DecodeString(presented)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// toCommand validates the payload schema and builds the command. A non-empty
// second return names the first violated field.
func (h *WebhookHandler) toCommand(payload identityEventPayload) (command.ProcessIdentityEvent, string) {
	if payload.ID == "" {
		return command.ProcessIdentityEvent{}, "missing id"
	}
	if payload.Type != command.IdentityEventUpdated && payload.Type != command.IdentityEventDeleted {
		return command.ProcessIdentityEvent{}, "unknown event type"
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return command.ProcessIdentityEvent{}, "invalid user_id"
	}

	timestamp, err := time.Parse(time.RFC3339, payload.Timestamp)
	if err != nil {
		return command.ProcessIdentityEvent{}, "invalid timestamp"
	}

	return command.ProcessIdentityEvent{
		EventID:       payload.ID,
		EventType:     payload.Type,
		UserID:        userID,
		ChangedFields: payload.ChangedFields,
		Timestamp:     timestamp,
	}, ""
}

// reject handles an authenticity failure: 401, warn log, audit event, and no
// further processing of any kind.
func (h *WebhookHandler) reject(w http.ResponseWriter, r *http.Request, cause string) {
	metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookOutcomeInvalidSignature).Inc()
	h.logger.Warn("webhook rejected",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("cause", cause),
	)
	if err := h.publisher.Publish(r.Context(), event.NewWebhookRejected(r.RemoteAddr, cause)); err != nil {
		h.logger.Error("failed to publish webhook rejection event", zap.Error(err))
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
}

func (h *WebhookHandler) rejectSchema(w http.ResponseWriter, cause string) {
	metrics.WebhookEventsTotal.WithLabelValues(metrics.WebhookOutcomeInvalidSchema).Inc()
	h.logger.Warn("webhook payload failed schema validation", zap.String("cause", cause))
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: cause})
}
