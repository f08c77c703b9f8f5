package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/0xsj/aegis/internal/domain/model"
)

func TestPasswordChangeFlow(t *testing.T) {
	env := newEnv(t)
	_, oldToken := env.seedUser(t, "alice@example.com", "old-Secure-Passw0rd!")

	// The old session works before the change.
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", oldToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("pre-change request should pass, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodPost, "/v1/account/password", oldToken, map[string]string{
		"current_password": "old-Secure-Passw0rd!",
		"new_password":     "xkR9!vement-Quartz_81",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("password change failed: %d: %s", rec.Code, rec.Body.String())
	}

	var changed struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &changed)
	if changed.Token == "" {
		t.Fatal("expected a fresh token in the response")
	}

	// The pre-change token is dead, even though its signature still validates.
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", oldToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("pre-change token should be rejected, got %d", rec.Code)
	}

	// The freshly issued token works.
	rec = env.do(t, http.MethodGet, "/v1/account/security-status", changed.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("post-change token should pass, got %d: %s", rec.Code, rec.Body.String())
	}

	var status struct {
		Revoked bool   `json:"revoked"`
		Reason  string `json:"reason"`
		Scope   string `json:"scope"`
	}
	decodeBody(t, rec, &status)
	if !status.Revoked || status.Reason != string(model.ReasonPasswordChange) || status.Scope != string(model.ScopeTemporary) {
		t.Errorf("security status should report the active revocation: %+v", status)
	}
}

func TestLogoutEverywhereFlow(t *testing.T) {
	env := newEnv(t)
	user, token := env.seedUser(t, "bob@example.com", "a-Secure-Passw0rd!")

	rec := env.do(t, http.MethodPost, "/v1/account/logout-all", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout-all failed: %d: %s", rec.Code, rec.Body.String())
	}

	// Every outstanding token is dead.
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("old token should be rejected after logout-all, got %d", rec.Code)
	}

	if len(env.provider.invalidated) != 1 || env.provider.invalidated[0] != user.ID() {
		t.Error("provider-side sessions should be invalidated too")
	}
}

func TestWebhookDeletionFlow(t *testing.T) {
	env := newEnv(t)
	user, token := env.seedUser(t, "carol@example.com", "a-Secure-Passw0rd!")

	rec := env.postWebhook(t, map[string]any{
		"id":             "evt-1",
		"type":           "identity.deleted",
		"user_id":        user.ID().String(),
		"changed_fields": []string{},
		"timestamp":      "2026-08-31T12:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook failed: %d: %s", rec.Code, rec.Body.String())
	}

	// Permanent revocation kills old and fresh tokens alike.
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("token should be rejected after provider-side deletion, got %d", rec.Code)
	}
	fresh, err := signTokenAt(user.ID(), time.Now())
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", fresh, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("fresh token should also be rejected under a permanent record, got %d", rec.Code)
	}

	// An administrative clear restores access.
	if rec := env.doAdmin(t, http.MethodDelete, "/v1/admin/users/"+user.ID().String()+"/revocation", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("clear failed: %d: %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("token should work after clear, got %d", rec.Code)
	}
}

func TestForceLogoutFlow(t *testing.T) {
	env := newEnv(t)
	user, token := env.seedUser(t, "dave@example.com", "a-Secure-Passw0rd!")

	rec := env.doAdmin(t, http.MethodPost, "/v1/admin/users/"+user.ID().String()+"/force-logout", map[string]any{
		"reason": "suspicious_activity",
		"actor":  "soc-analyst",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("force-logout failed: %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Scope string `json:"scope"`
	}
	decodeBody(t, rec, &result)
	if result.Scope != string(model.ScopeTemporary) {
		t.Errorf("expected temporary scope, got %q", result.Scope)
	}

	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("token should be rejected after force-logout, got %d", rec.Code)
	}

	// A non-administrative reason is refused at the admin surface.
	rec = env.doAdmin(t, http.MethodPost, "/v1/admin/users/"+user.ID().String()+"/force-logout", map[string]any{
		"reason": "password_change",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-administrative reason, got %d", rec.Code)
	}

	// Without the admin token the surface does not exist for the caller.
	recNoAuth := env.do(t, http.MethodPost, "/v1/admin/users/"+user.ID().String()+"/force-logout", "", map[string]any{
		"reason": "admin_action",
	})
	if recNoAuth.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", recNoAuth.Code)
	}
}

func TestDeleteAccountFlow(t *testing.T) {
	env := newEnv(t)
	user, token := env.seedUser(t, "erin@example.com", "a-Secure-Passw0rd!")

	rec := env.do(t, http.MethodDelete, "/v1/account", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d: %s", rec.Code, rec.Body.String())
	}

	if record := env.store.Record(user.ID()); record == nil || !record.IsPermanent() {
		t.Error("deletion should leave a permanent revocation record")
	}
	if rec := env.do(t, http.MethodGet, "/v1/account/security-status", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account's token should be rejected, got %d", rec.Code)
	}
}
