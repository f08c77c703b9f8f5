package command

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/metrics"
	"github.com/0xsj/aegis/internal/port/outbound/cache"
	"github.com/0xsj/aegis/internal/port/outbound/messaging"
)

const defaultMaxWriteTries = 3

// RevocationWriter is the single write path from trigger handlers to the
// revocation store. Store failures are retried with exponential backoff: an
// unrecorded revocation is a security gap, not a cosmetic failure. On
// success it emits the revocation audit event and metrics.
type RevocationWriter struct {
	store     cache.RevocationStore
	publisher messaging.EventPublisher
	logger    *zap.Logger
	maxTries  uint
}

// NewRevocationWriter creates a new RevocationWriter.
func NewRevocationWriter(
	store cache.RevocationStore,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
	maxTries uint,
) *RevocationWriter {
	if maxTries == 0 {
		maxTries = defaultMaxWriteTries
	}
	return &RevocationWriter{
		store:     store,
		publisher: publisher,
		logger:    logger,
		maxTries:  maxTries,
	}
}

// RevokeTemporary writes a temporary record for the user.
func (w *RevocationWriter) RevokeTemporary(
	ctx context.Context,
	userID uuid.UUID,
	reason model.RevocationReason,
	metadata map[string]string,
) error {
	return w.write(ctx, userID, reason, model.ScopeTemporary, metadata, func(ctx context.Context) error {
		return w.store.Revoke(ctx, userID, reason, metadata)
	})
}

// RevokePermanent writes a permanent record for the user.
func (w *RevocationWriter) RevokePermanent(
	ctx context.Context,
	userID uuid.UUID,
	reason model.RevocationReason,
	metadata map[string]string,
) error {
	return w.write(ctx, userID, reason, model.ScopePermanent, metadata, func(ctx context.Context) error {
		return w.store.RevokePermanently(ctx, userID, reason, metadata)
	})
}

func (w *RevocationWriter) write(
	ctx context.Context,
	userID uuid.UUID,
	reason model.RevocationReason,
	scope model.RevocationScope,
	metadata map[string]string,
	op func(ctx context.Context) error,
) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(w.maxTries),
	)
	if err != nil {
		metrics.StoreFailuresTotal.WithLabelValues("write").Inc()
		w.logger.Error("failed to record revocation",
			zap.String("user_id", userID.String()),
			zap.String("reason", reason.String()),
			zap.String("scope", scope.String()),
			zap.Error(err),
		)
		return err
	}

	metrics.RevocationsTotal.WithLabelValues(reason.String(), scope.String()).Inc()

	_ = w.publisher.Publish(ctx, event.NewRevocationCreated(userID, reason, scope, metadata))

	return nil
}

// AuditMetadata assembles the standard audit bag for a trigger.
func AuditMetadata(clientIP, userAgent, actor string) map[string]string {
	metadata := make(map[string]string, 4)
	if clientIP != "" {
		metadata["ip"] = clientIP
	}
	if userAgent != "" {
		metadata["user_agent"] = userAgent
	}
	if actor != "" {
		metadata["actor"] = actor
	}
	metadata["triggered_at"] = time.Now().UTC().Format(time.RFC3339)
	return metadata
}
