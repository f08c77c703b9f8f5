package model

import (
	"time"

	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
)

// RevocationReason identifies the security event that caused a revocation.
type RevocationReason string

const (
	ReasonPasswordChange     RevocationReason = "password_change"
	ReasonEmailChange        RevocationReason = "email_change"
	ReasonLogoutAll          RevocationReason = "user_initiated_logout_all"
	ReasonSecurityIncident   RevocationReason = "security_incident"
	ReasonAccountDeletion    RevocationReason = "account_deletion"
	ReasonSuspiciousActivity RevocationReason = "suspicious_activity"
	ReasonAdminAction        RevocationReason = "admin_action"
)

// ParseRevocationReason validates a textual reason against the closed enumeration.
func ParseRevocationReason(s string) (RevocationReason, error) {
	reason := RevocationReason(s)
	if !reason.IsValid() {
		return "", domainerror.ErrRevocationReasonInvalid
	}
	return reason, nil
}

// IsValid reports whether the reason is part of the closed enumeration.
func (r RevocationReason) IsValid() bool {
	switch r {
	case ReasonPasswordChange,
		ReasonEmailChange,
		ReasonLogoutAll,
		ReasonSecurityIncident,
		ReasonAccountDeletion,
		ReasonSuspiciousActivity,
		ReasonAdminAction:
		return true
	}
	return false
}

func (r RevocationReason) String() string { return string(r) }

// RevocationScope determines whether a revocation expires on its own.
type RevocationScope string

const (
	ScopeTemporary RevocationScope = "temporary"
	ScopePermanent RevocationScope = "permanent"
)

// IsValid reports whether the scope is one of the two supported values.
func (s RevocationScope) IsValid() bool {
	return s == ScopeTemporary || s == ScopePermanent
}

func (s RevocationScope) String() string { return string(s) }

// RevocationRecord asserts that a user's otherwise-valid bearer tokens must be
// treated as invalid. One record exists per user; a new trigger overwrites the
// prior record, except that a permanent record is never downgraded by a
// temporary write.
type RevocationRecord struct {
	userID    uuid.UUID
	reason    RevocationReason
	scope     RevocationScope
	createdAt time.Time
	expiresAt time.Time // zero for permanent scope
	metadata  map[string]string
}

// NewTemporaryRevocation creates a revocation that expires after window.
// The window must cover the maximum remaining lifetime of any token the
// identity provider can have issued at creation time; config validation
// enforces that relationship against the provider's token lifetime.
func NewTemporaryRevocation(
	userID uuid.UUID,
	reason RevocationReason,
	window time.Duration,
	metadata map[string]string,
) (*RevocationRecord, error) {
	if userID == uuid.Nil {
		return nil, domainerror.ErrUserIDRequired
	}
	if !reason.IsValid() {
		return nil, domainerror.ErrRevocationReasonInvalid
	}
	if window <= 0 {
		return nil, domainerror.ErrRevocationWindowInvalid
	}

	now := time.Now().UTC()

	return &RevocationRecord{
		userID:    userID,
		reason:    reason,
		scope:     ScopeTemporary,
		createdAt: now,
		expiresAt: now.Add(window),
		metadata:  copyMetadata(metadata),
	}, nil
}

// NewPermanentRevocation creates a revocation that never expires on its own.
// Only an explicit administrative clear removes it.
func NewPermanentRevocation(
	userID uuid.UUID,
	reason RevocationReason,
	metadata map[string]string,
) (*RevocationRecord, error) {
	if userID == uuid.Nil {
		return nil, domainerror.ErrUserIDRequired
	}
	if !reason.IsValid() {
		return nil, domainerror.ErrRevocationReasonInvalid
	}

	return &RevocationRecord{
		userID:    userID,
		reason:    reason,
		scope:     ScopePermanent,
		createdAt: time.Now().UTC(),
		metadata:  copyMetadata(metadata),
	}, nil
}

// ReconstructRevocationRecord creates a RevocationRecord from persisted data.
func ReconstructRevocationRecord(
	userID uuid.UUID,
	reason RevocationReason,
	scope RevocationScope,
	createdAt time.Time,
	expiresAt time.Time,
	metadata map[string]string,
) *RevocationRecord {
	return &RevocationRecord{
		userID:    userID,
		reason:    reason,
		scope:     scope,
		createdAt: createdAt,
		expiresAt: expiresAt,
		metadata:  copyMetadata(metadata),
	}
}

// Getters

func (r *RevocationRecord) UserID() uuid.UUID        { return r.userID }
func (r *RevocationRecord) Reason() RevocationReason { return r.reason }
func (r *RevocationRecord) Scope() RevocationScope   { return r.scope }
func (r *RevocationRecord) CreatedAt() time.Time     { return r.createdAt }

// ExpiresAt returns the expiry of a temporary record and false for permanent scope.
func (r *RevocationRecord) ExpiresAt() (time.Time, bool) {
	if r.scope == ScopePermanent {
		return time.Time{}, false
	}
	return r.expiresAt, true
}

// Metadata returns a copy of the audit metadata bag. Metadata is never used
// for authorization decisions.
func (r *RevocationRecord) Metadata() map[string]string {
	return copyMetadata(r.metadata)
}

// IsPermanent reports whether the record survives TTL expiry.
func (r *RevocationRecord) IsPermanent() bool {
	return r.scope == ScopePermanent
}

// Covers reports whether a request timestamped at t falls inside the record's
// effective window, regardless of the bearer token's own claims.
func (r *RevocationRecord) Covers(t time.Time) bool {
	if t.Before(r.createdAt) {
		return false
	}
	if r.scope == ScopePermanent {
		return true
	}
	return !t.After(r.expiresAt)
}

func copyMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
