package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appcommand "github.com/0xsj/aegis/internal/app/command"
	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/tests/testutil/mocks"
)

func TestRevocationWriter_RevokeTemporary(t *testing.T) {
	t.Run("writes record and publishes audit event", func(t *testing.T) {
		store := mocks.NewRevocationStore(time.Hour)
		publisher := mocks.NewEventPublisher()
		writer := appcommand.NewRevocationWriter(store, publisher, zap.NewNop(), 1)
		userID := uuid.New()

		err := writer.RevokeTemporary(context.Background(), userID, model.ReasonLogoutAll, map[string]string{"ip": "10.0.0.1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		record := store.Record(userID)
		if record == nil {
			t.Fatal("expected a stored record")
		}
		if record.Scope() != model.ScopeTemporary {
			t.Errorf("expected temporary scope, got %s", record.Scope())
		}

		events := publisher.EventsByType(event.EventTypeRevocationCreated)
		if len(events) != 1 {
			t.Fatalf("expected 1 revocation.created event, got %d", len(events))
		}
		created := events[0].(event.RevocationCreated)
		if created.UserID != userID || created.Reason != model.ReasonLogoutAll {
			t.Errorf("event payload mismatch: %+v", created)
		}
	})

	t.Run("retries transient store failures", func(t *testing.T) {
		store := mocks.NewRevocationStore(time.Hour)
		store.Errors.Revoke = errors.New("connection refused")
		publisher := mocks.NewEventPublisher()
		writer := appcommand.NewRevocationWriter(store, publisher, zap.NewNop(), 2)
		userID := uuid.New()

		err := writer.RevokeTemporary(context.Background(), userID, model.ReasonPasswordChange, nil)
		if err == nil {
			t.Fatal("expected error when store is down")
		}
		if store.Calls.Revoke != 2 {
			t.Errorf("expected 2 attempts, got %d", store.Calls.Revoke)
		}
		if publisher.Calls.Publish != 0 {
			t.Error("no audit event should be published on failure")
		}
	})
}

func TestRevocationWriter_RevokePermanent(t *testing.T) {
	store := mocks.NewRevocationStore(time.Hour)
	publisher := mocks.NewEventPublisher()
	writer := appcommand.NewRevocationWriter(store, publisher, zap.NewNop(), 1)
	userID := uuid.New()

	if err := writer.RevokePermanent(context.Background(), userID, model.ReasonAccountDeletion, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := store.Record(userID)
	if record == nil || !record.IsPermanent() {
		t.Fatal("expected a permanent record")
	}

	// A later temporary write must not downgrade the record.
	if err := writer.RevokeTemporary(context.Background(), userID, model.ReasonPasswordChange, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Record(userID).IsPermanent() {
		t.Error("temporary write downgraded a permanent record")
	}
}

func TestAuditMetadata(t *testing.T) {
	metadata := appcommand.AuditMetadata("10.0.0.1", "curl/8", "admin@example.com")

	if metadata["ip"] != "10.0.0.1" {
		t.Errorf("ip mismatch: %q", metadata["ip"])
	}
	if metadata["user_agent"] != "curl/8" {
		t.Errorf("user_agent mismatch: %q", metadata["user_agent"])
	}
	if metadata["actor"] != "admin@example.com" {
		t.Errorf("actor mismatch: %q", metadata["actor"])
	}
	if _, err := time.Parse(time.RFC3339, metadata["triggered_at"]); err != nil {
		t.Errorf("triggered_at should be RFC3339: %v", err)
	}

	sparse := appcommand.AuditMetadata("", "", "")
	if _, ok := sparse["ip"]; ok {
		t.Error("empty ip should be omitted")
	}
}
