package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-lms/backend/internal/models"
	"github.com/meridian-lms/backend/pkg/kv"
)

// tokenKeyPrefix namespaces access tokens in the shared kv store.
const tokenKeyPrefix = "hls_token:"

// ErrTokenInvalid is returned for unknown and expired tokens alike, so a
// caller cannot tell whether a token ever existed.
var ErrTokenInvalid = errors.New("access token expired or invalid")

// TokenRecord is the context bound to one access token. A record binds
// exactly one (lecture, user) pair for the token's whole life; a new stream
// request always mints a new token rather than rebinding an old one.
type TokenRecord struct {
	LectureID     int64     `json:"lecture_id"`
	UserID        uuid.UUID `json:"user_id"`
	IsFreePreview bool      `json:"is_free_preview"`
	IssuedAt      int64     `json:"issued_at"`
}

// TokenService mints and resolves short-lived streaming capability tokens.
type TokenService struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewTokenService creates a token service with the given absolute TTL.
func NewTokenService(store kv.Store, ttl time.Duration) *TokenService {
	return &TokenService{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue mints a UUID v4 token bound to (lecture, user) and stores it with
// the configured TTL. The expiry is absolute from issuance: later reads do
// not extend it.
func (s *TokenService) Issue(ctx context.Context, lecture *models.Lecture, userID uuid.UUID, isFreePreview bool) (string, error) {
	token := uuid.NewString()
	rec := TokenRecord{
		LectureID:     lecture.ID,
		UserID:        userID,
		IsFreePreview: isFreePreview,
		IssuedAt:      s.now().Unix(),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal token record: %w", err)
	}
	if err := s.store.Set(ctx, tokenKeyPrefix+token, payload, s.ttl); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve returns the record bound to a token, or ErrTokenInvalid for a
// token that is unknown, expired, or malformed. Resolve never mutates the
// stored record and is safe under concurrent reads.
func (s *TokenService) Resolve(ctx context.Context, token string) (*TokenRecord, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrTokenInvalid
	}
	raw, found, err := s.store.Get(ctx, tokenKeyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("token lookup: %w", err)
	}
	if !found {
		return nil, ErrTokenInvalid
	}
	var rec TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, ErrTokenInvalid
	}
	return &rec, nil
}
