package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"creditdash/internal/session/models"
	"creditdash/pkg/platform/sentinel"
)

const (
	// sessionKeyPrefix namespaces the hash that holds one session.
	sessionKeyPrefix = "dash:session:"

	fieldName        = "name"
	fieldAadhaar     = "aadhaar"
	fieldPayload     = "payload"
	fieldCard        = "recommended_card"
	fieldEnriched    = "enriched_cards"
	fieldFingerprint = "enriched_fingerprint"
	fieldView        = "active_view"
	fieldCreatedAt   = "created_at"
	fieldExpiresAt   = "expires_at"

	maxWatchRetries = 3
)

// RedisStore keeps each session in one Redis hash with a TTL. Commit replaces
// the hash in a MULTI block, setters update fields under WATCH and Clear is a
// single DEL, so readers never observe a half-written or half-cleared session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisClock overrides time.Now for created/expires timestamps.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		s.now = now
	}
}

// NewRedis constructs a Redis-backed session store.
func NewRedis(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (s *RedisStore) Commit(ctx context.Context, id uuid.UUID, payload models.Payload, name, aadhaar string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode session payload: %w", err)
	}
	now := s.now()
	key := sessionKey(id)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldName, name,
			fieldAadhaar, aadhaar,
			fieldPayload, encoded,
			fieldCreatedAt, strconv.FormatInt(now.UnixNano(), 10),
		)
		if s.ttl > 0 {
			pipe.HSet(ctx, key, fieldExpiresAt, strconv.FormatInt(now.Add(s.ttl).UnixNano(), 10))
			pipe.PExpire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *RedisStore) ReadAll(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if fields[fieldName] == "" || fields[fieldPayload] == "" {
		return nil, sentinel.ErrNotFound
	}
	return decodeRecord(id, fields)
}

func (s *RedisStore) SetDerivedCard(ctx context.Context, id uuid.UUID, card models.Card) error {
	encoded, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode derived card: %w", err)
	}
	return s.updateFields(ctx, id, fieldCard, encoded)
}

func (s *RedisStore) SetEnrichedCards(ctx context.Context, id uuid.UUID, fingerprint string, cards []models.Card) error {
	encoded, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode enriched cards: %w", err)
	}
	return s.updateFields(ctx, id, fieldEnriched, encoded, fieldFingerprint, fingerprint)
}

func (s *RedisStore) SetActiveView(ctx context.Context, id uuid.UUID, view string) error {
	return s.updateFields(ctx, id, fieldView, view)
}

func (s *RedisStore) Clear(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// updateFields writes values into an existing session hash. The WATCH makes
// the write fail rather than resurrect a session cleared in between; conflicts
// are retried a bounded number of times.
func (s *RedisStore) updateFields(ctx context.Context, id uuid.UUID, values ...any) error {
	key := sessionKey(id)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return sentinel.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, values...)
			return nil
		})
		return err
	}

	var err error
	for range maxWatchRetries {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("update session: %w", err)
	}
	return err
}

func decodeRecord(id uuid.UUID, fields map[string]string) (*models.Record, error) {
	rec := &models.Record{
		ID:                  id,
		CustomerName:        fields[fieldName],
		Aadhaar:             fields[fieldAadhaar],
		EnrichedFingerprint: fields[fieldFingerprint],
		ActiveView:          fields[fieldView],
	}
	if err := json.Unmarshal([]byte(fields[fieldPayload]), &rec.Payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w: %w", sentinel.ErrInvalidState, err)
	}
	if !rec.Payload.Complete() {
		return nil, fmt.Errorf("session %s has a partial payload: %w", id, sentinel.ErrInvalidState)
	}
	if raw := fields[fieldCard]; raw != "" {
		var card models.Card
		if err := json.Unmarshal([]byte(raw), &card); err != nil {
			return nil, fmt.Errorf("decode derived card: %w: %w", sentinel.ErrInvalidState, err)
		}
		rec.RecommendedCard = &card
	}
	if raw := fields[fieldEnriched]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rec.EnrichedCards); err != nil {
			return nil, fmt.Errorf("decode enriched cards: %w: %w", sentinel.ErrInvalidState, err)
		}
	}
	rec.CreatedAt = parseUnixNano(fields[fieldCreatedAt])
	rec.ExpiresAt = parseUnixNano(fields[fieldExpiresAt])
	return rec, nil
}

func parseUnixNano(raw string) time.Time {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
