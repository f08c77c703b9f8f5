package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"

	rediscache "github.com/0xsj/aegis/internal/adapter/outbound/redis"
	"github.com/0xsj/aegis/internal/domain/model"
)

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	flushRedis(t)
	store := rediscache.NewRevocationStore(testRedisClient, time.Hour)
	userID := uuid.New()

	revoked, err := store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Fatal("fresh user should not be revoked")
	}

	if err := store.Revoke(testCtx, userID, model.ReasonPasswordChange, map[string]string{"ip": "10.0.0.1"}); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	revoked, err = store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Fatal("user should be revoked")
	}

	record, err := store.GetDetails(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil {
		t.Fatal("expected record details")
	}
	if record.UserID() != userID {
		t.Errorf("user ID mismatch: got %s, want %s", record.UserID(), userID)
	}
	if record.Reason() != model.ReasonPasswordChange {
		t.Errorf("reason mismatch: got %s", record.Reason())
	}
	if record.Scope() != model.ScopeTemporary {
		t.Errorf("scope mismatch: got %s", record.Scope())
	}
	if record.Metadata()["ip"] != "10.0.0.1" {
		t.Error("metadata should round-trip")
	}
	if _, ok := record.ExpiresAt(); !ok {
		t.Error("temporary record should carry an expiry")
	}

	// An unrelated user is unaffected.
	other, err := store.IsRevoked(testCtx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other {
		t.Error("unrelated user should not be revoked")
	}
}

func TestRevocationStore_TemporaryRecordExpires(t *testing.T) {
	flushRedis(t)
	// A short window keeps the test quick; the TTL mechanics are identical.
	store := rediscache.NewRevocationStore(testRedisClient, 200*time.Millisecond)
	userID := uuid.New()

	if err := store.Revoke(testCtx, userID, model.ReasonLogoutAll, nil); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	revoked, err := store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Fatal("record should be effective inside the window")
	}

	time.Sleep(400 * time.Millisecond)

	revoked, err = store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Fatal("record should lapse after the window")
	}

	record, err := store.GetDetails(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Error("expired record should be gone")
	}
}

func TestRevocationStore_RepeatedRevokeResetsWindow(t *testing.T) {
	flushRedis(t)
	store := rediscache.NewRevocationStore(testRedisClient, 500*time.Millisecond)
	userID := uuid.New()

	if err := store.Revoke(testCtx, userID, model.ReasonPasswordChange, nil); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	// Re-revoke inside the window; the TTL restarts from now.
	if err := store.Revoke(testCtx, userID, model.ReasonEmailChange, nil); err != nil {
		t.Fatalf("failed to re-revoke: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	revoked, err := store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Fatal("window should have been reset by the second revoke")
	}

	record, err := store.GetDetails(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Reason() != model.ReasonEmailChange {
		t.Errorf("latest write should win: got %s", record.Reason())
	}
}

func TestRevocationStore_PermanentScopePriority(t *testing.T) {
	flushRedis(t)
	store := rediscache.NewRevocationStore(testRedisClient, 200*time.Millisecond)
	userID := uuid.New()

	if err := store.RevokePermanently(testCtx, userID, model.ReasonAccountDeletion, nil); err != nil {
		t.Fatalf("failed to revoke permanently: %v", err)
	}

	// A later temporary write must neither downgrade the scope nor attach
	// a TTL to the permanent record.
	if err := store.Revoke(testCtx, userID, model.ReasonPasswordChange, nil); err != nil {
		t.Fatalf("temporary write over permanent should still succeed: %v", err)
	}

	record, err := store.GetDetails(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.IsPermanent() {
		t.Fatal("permanent record was downgraded")
	}
	if record.Reason() != model.ReasonAccountDeletion {
		t.Errorf("permanent record was overwritten: got %s", record.Reason())
	}

	// Outlive the temporary window to prove no TTL leaked onto the key.
	time.Sleep(400 * time.Millisecond)

	revoked, err := store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Fatal("permanent record should survive the temporary window")
	}
}

func TestRevocationStore_PermanentUpgradeAndClear(t *testing.T) {
	flushRedis(t)
	store := rediscache.NewRevocationStore(testRedisClient, time.Hour)
	userID := uuid.New()

	if err := store.Revoke(testCtx, userID, model.ReasonPasswordChange, nil); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	// Temporary to permanent is a legal transition.
	if err := store.RevokePermanently(testCtx, userID, model.ReasonSecurityIncident, nil); err != nil {
		t.Fatalf("failed to upgrade: %v", err)
	}

	record, err := store.GetDetails(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.IsPermanent() || record.Reason() != model.ReasonSecurityIncident {
		t.Error("expected upgraded permanent record")
	}

	// Clear removes any record regardless of scope.
	if err := store.Clear(testCtx, userID); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	revoked, err := store.IsRevoked(testCtx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Fatal("cleared user should not be revoked")
	}

	// Clear on a missing record is a no-op, not an error.
	if err := store.Clear(testCtx, userID); err != nil {
		t.Fatalf("clear should be idempotent: %v", err)
	}
}
