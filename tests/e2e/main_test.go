package e2e

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httpadapter "github.com/0xsj/aegis/internal/adapter/inbound/http"
	appcommand "github.com/0xsj/aegis/internal/app/command"
	appquery "github.com/0xsj/aegis/internal/app/query"
	"github.com/0xsj/aegis/internal/app/service"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/outbound/idp"
	"github.com/0xsj/aegis/tests/testutil"
	"github.com/0xsj/aegis/tests/testutil/mocks"
)

const (
	adminToken = "e2e-admin-token"
	issuer     = "https://idp.example.com"
	audience   = "aegis"
)

var (
	signingKey    = []byte("e2e-signing-key-e2e-signing-key!")
	webhookSecret = []byte("e2e-webhook-secret")
)

// signingProvider implements idp.IdentityProvider and mints real tokens so
// credentials issued mid-flow validate on subsequent requests.
type signingProvider struct {
	invalidated []uuid.UUID
}

func (p *signingProvider) InvalidateSessions(ctx context.Context, userID uuid.UUID) error {
	p.invalidated = append(p.invalidated, userID)
	return nil
}

func (p *signingProvider) IssueToken(ctx context.Context, userID uuid.UUID) (idp.IssuedToken, error) {
	expiresAt := time.Now().Add(30 * time.Minute)
	token, err := signTokenAt(userID, time.Now())
	if err != nil {
		return idp.IssuedToken{}, err
	}
	return idp.IssuedToken{Token: token, ExpiresAt: expiresAt}, nil
}

func signTokenAt(userID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(30 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

// env is a fully wired service instance with in-memory adapters.
type env struct {
	repo     *mocks.UserRepository
	store    *mocks.RevocationStore
	provider *signingProvider
	router   http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := mocks.NewUserRepository()
	store := mocks.NewRevocationStore(25 * time.Hour)
	publisher := mocks.NewEventPublisher()
	provider := &signingProvider{}
	logger := zap.NewNop()

	tokens, err := service.NewTokenService(service.TokenConfig{
		Issuer:           issuer,
		Audience:         audience,
		SigningKey:       signingKey,
		MaxTokenLifetime: time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	passwords := testutil.Fixtures.PasswordService()

	writer := appcommand.NewRevocationWriter(store, publisher, logger, 1)
	handler := httpadapter.NewHandler(httpadapter.HandlerConfig{
		ChangePassword:    appcommand.NewChangePasswordHandler(repo, passwords, writer, provider, publisher, logger),
		ChangeEmail:       appcommand.NewChangeEmailHandler(repo, passwords, writer, provider, publisher, logger),
		LogoutEverywhere:  appcommand.NewLogoutEverywhereHandler(writer, provider, logger),
		ForceLogout:       appcommand.NewForceLogoutHandler(writer, provider, logger),
		DeleteAccount:     appcommand.NewDeleteAccountHandler(repo, writer, provider, publisher, logger),
		ClearRevocation:   appcommand.NewClearRevocationHandler(store, publisher),
		GetUser:           appquery.NewGetUserHandler(repo),
		SearchUsers:       appquery.NewSearchUsersHandler(repo),
		GetSecurityStatus: appquery.NewGetSecurityStatusHandler(store),
		Logger:            logger,
	})
	enforcement := httpadapter.NewEnforcement(tokens, store, httpadapter.FailOpen, time.Second, logger)
	adminAuth := httpadapter.NewAdminAuth(adminToken, logger)
	webhook := httpadapter.NewWebhookHandler(
		webhookSecret,
		appcommand.NewProcessIdentityEventHandler(writer, logger),
		publisher,
		logger,
	)

	return &env{
		repo:     repo,
		store:    store,
		provider: provider,
		router:   httpadapter.NewRouter(handler, enforcement, adminAuth, webhook),
	}
}

// seedUser stores a user and returns a bearer token issued in the past, as a
// long-lived session would hold.
func (e *env) seedUser(t *testing.T, email, password string) (*model.User, string) {
	t.Helper()
	user := testutil.Fixtures.UserWithEmail(email, password)
	e.repo.Seed(user)

	token, err := signTokenAt(user.ID(), time.Now().Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return user, token
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) doAdmin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) postWebhook(t *testing.T, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	mac := hmac.New(sha256.New, webhookSecret)
	mac.Write(body)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(body))
	req.Header.Set(httpadapter.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
