package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	appcommand "github.com/0xsj/aegis/internal/app/command"
	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
	"github.com/0xsj/aegis/tests/testutil"
	"github.com/0xsj/aegis/tests/testutil/mocks"
)

func TestDeleteAccountHandler(t *testing.T) {
	t.Run("deletes account and writes permanent revocation", func(t *testing.T) {
		repo := mocks.NewUserRepository()
		store := mocks.NewRevocationStore(time.Hour)
		publisher := mocks.NewEventPublisher()
		provider := mocks.NewIdentityProvider()
		user := testutil.Fixtures.User("a-Secure-Passw0rd!")
		repo.Seed(user)

		writer := appcommand.NewRevocationWriter(store, publisher, zap.NewNop(), 1)
		handler := appcommand.NewDeleteAccountHandler(repo, writer, provider, publisher, zap.NewNop())

		_, err := handler.Handle(context.Background(), command.DeleteAccount{UserID: user.ID()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := repo.FindByID(context.Background(), user.ID()); !errors.Is(err, repository.ErrNotFound) {
			t.Error("user should be gone")
		}
		record := store.Record(user.ID())
		if record == nil || !record.IsPermanent() || record.Reason() != model.ReasonAccountDeletion {
			t.Error("expected a permanent account_deletion record")
		}
		if len(publisher.EventsByType(event.EventTypeUserDeleted)) != 1 {
			t.Error("expected user.deleted event")
		}
	})

	t.Run("failed deletion writes no revocation", func(t *testing.T) {
		repo := mocks.NewUserRepository()
		store := mocks.NewRevocationStore(time.Hour)
		user := testutil.Fixtures.User("a-Secure-Passw0rd!")
		repo.Seed(user)
		repo.Errors.Delete = errors.New("db down")

		writer := appcommand.NewRevocationWriter(store, mocks.NewEventPublisher(), zap.NewNop(), 1)
		handler := appcommand.NewDeleteAccountHandler(repo, writer, mocks.NewIdentityProvider(), mocks.NewEventPublisher(), zap.NewNop())

		_, err := handler.Handle(context.Background(), command.DeleteAccount{UserID: user.ID()})
		if err == nil {
			t.Fatal("expected error")
		}
		if store.Record(user.ID()) != nil {
			t.Error("no revocation should exist for a failed deletion")
		}
	})
}

func TestClearRevocationHandler(t *testing.T) {
	store := mocks.NewRevocationStore(time.Hour)
	publisher := mocks.NewEventPublisher()
	handler := appcommand.NewClearRevocationHandler(store, publisher)
	userID := testutil.Fixtures.UserID()

	if err := store.RevokePermanently(context.Background(), userID, model.ReasonSecurityIncident, nil); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}

	_, err := handler.Handle(context.Background(), command.ClearRevocation{UserID: userID, Actor: "ops"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Record(userID) != nil {
		t.Error("record should be cleared")
	}
	events := publisher.EventsByType(event.EventTypeRevocationCleared)
	if len(events) != 1 {
		t.Fatalf("expected revocation.cleared event, got %d", len(events))
	}
	cleared := events[0].(event.RevocationCleared)
	if cleared.Actor != "ops" {
		t.Errorf("actor mismatch: %q", cleared.Actor)
	}
}
