package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/outbound/cache"
)

const (
	revocationKeyPrefix = "aegis:revocation:"
)

// writeRecordScript writes a record unless a permanent one already exists.
// Scope comparison and write happen in a single round-trip so a concurrent
// temporary write can never clobber a permanent record. Returns 1 if the
// record was written, 0 if an existing permanent record was left intact.
var writeRecordScript = redis.NewScript(`
local new_scope = ARGV[3]
if new_scope ~= 'permanent' then
	local existing = redis.call('GET', KEYS[1])
	if existing then
		local record = cjson.decode(existing)
		if record['scope'] == 'permanent' then
			return 0
		end
	end
end
redis.call('SET', KEYS[1], ARGV[1])
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
else
	redis.call('PERSIST', KEYS[1])
end
return 1
`)

// revocationStore implements cache.RevocationStore.
type revocationStore struct {
	client *redis.Client
	window time.Duration
}

// NewRevocationStore creates a new RevocationStore. The window is the
// temporary revocation TTL; config validation guarantees it covers the
// identity provider's maximum token lifetime plus clock skew.
func NewRevocationStore(client *redis.Client, window time.Duration) cache.RevocationStore {
	return &revocationStore{
		client: client,
		window: window,
	}
}

func (s *revocationStore) Revoke(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error {
	record, err := model.NewTemporaryRevocation(userID, reason, s.window, metadata)
	if err != nil {
		return err
	}
	return s.write(ctx, record)
}

func (s *revocationStore) RevokePermanently(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error {
	record, err := model.NewPermanentRevocation(userID, reason, metadata)
	if err != nil {
		return err
	}
	return s.write(ctx, record)
}

func (s *revocationStore) IsRevoked(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := revocationKey(userID)

	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}

	return count > 0, nil
}

func (s *revocationStore) GetDetails(ctx context.Context, userID uuid.UUID) (*model.RevocationRecord, error) {
	key := revocationKey(userID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No revocation
		}
		return nil, fmt.Errorf("failed to get revocation record: %w", err)
	}

	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal revocation record: %w", err)
	}

	return stored.toModel()
}

func (s *revocationStore) Clear(ctx context.Context, userID uuid.UUID) error {
	key := revocationKey(userID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear revocation: %w", err)
	}

	return nil
}

func (s *revocationStore) write(ctx context.Context, record *model.RevocationRecord) error {
	data, err := json.Marshal(newStoredRecord(record))
	if err != nil {
		return fmt.Errorf("failed to marshal revocation record: %w", err)
	}

	var ttlMillis int64
	if !record.IsPermanent() {
		ttlMillis = s.window.Milliseconds()
	}

	key := revocationKey(record.UserID())
	if err := writeRecordScript.Run(ctx, s.client, []string{key}, data, ttlMillis, record.Scope().String()).Err(); err != nil {
		return fmt.Errorf("failed to write revocation record: %w", err)
	}

	return nil
}

// Key helper

func revocationKey(userID uuid.UUID) string {
	return revocationKeyPrefix + userID.String()
}

// Stored record structure for JSON serialization

type storedRecord struct {
	UserID    string            `json:"user_id"`
	Reason    string            `json:"reason"`
	Scope     string            `json:"scope"`
	CreatedAt int64             `json:"created_at"`
	ExpiresAt *int64            `json:"expires_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func newStoredRecord(r *model.RevocationRecord) storedRecord {
	stored := storedRecord{
		UserID:    r.UserID().String(),
		Reason:    r.Reason().String(),
		Scope:     r.Scope().String(),
		CreatedAt: r.CreatedAt().Unix(),
		Metadata:  r.Metadata(),
	}

	if expiresAt, ok := r.ExpiresAt(); ok {
		ea := expiresAt.Unix()
		stored.ExpiresAt = &ea
	}

	return stored
}

func (s storedRecord) toModel() (*model.RevocationRecord, error) {
	userID, err := uuid.Parse(s.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored user ID: %w", err)
	}

	var expiresAt time.Time
	if s.ExpiresAt != nil {
		expiresAt = time.Unix(*s.ExpiresAt, 0).UTC()
	}

	return model.ReconstructRevocationRecord(
		userID,
		model.RevocationReason(s.Reason),
		model.RevocationScope(s.Scope),
		time.Unix(s.CreatedAt, 0).UTC(),
		expiresAt,
		s.Metadata,
	), nil
}
