package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionTooLarge = errors.New("session token exceeds cookie size limit")
)

// MaxTokenBytes keeps the session cookie under the 4096-byte limit browsers
// enforce; a larger Set-Cookie is dropped silently.
const MaxTokenBytes = 4096

// Store persists sessions behind an opaque cookie token.
type Store interface {
	// Load returns the session the token points to or ErrInvalidToken.
	Load(ctx context.Context, token string) (*Session, error)
	// Save persists s and returns the token to put in the cookie.
	Save(ctx context.Context, s *Session) (string, error)
	// Delete forgets the session with the given id.
	Delete(ctx context.Context, id string) error
}

type Claims struct {
	Data *Data `json:"data,omitempty"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func (t tokenCodec) sign(id string, data *Data) (string, error) {
	now := time.Now()
	claims := Claims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t tokenCodec) parse(token string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(j *jwt.Token) (any, error) {
		if j.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid || claims.ID == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}

// CookieStore keeps the whole session inside the signed cookie.
type CookieStore struct {
	codec tokenCodec
}

func NewCookieStore(secret []byte, ttl time.Duration) *CookieStore {
	return &CookieStore{codec: tokenCodec{secret: secret, ttl: ttl}}
}

func (s *CookieStore) Load(_ context.Context, token string) (*Session, error) {
	claims, err := s.codec.parse(token)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: claims.ID}
	if claims.Data != nil {
		sess.Data = *claims.Data
	}
	sess.markLoaded()
	return sess, nil
}

func (s *CookieStore) Save(_ context.Context, sess *Session) (string, error) {
	token, err := s.codec.sign(sess.ID, &sess.Data)
	if err != nil {
		return "", err
	}
	if len(token) > MaxTokenBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrSessionTooLarge, len(token))
	}
	return token, nil
}

func (s *CookieStore) Delete(context.Context, string) error { return nil }

func (s *Session) markLoaded() {
	s.loaded, _ = json.Marshal(s.Data)
}

// dirty reports whether the session must be written back.
func (s *Session) dirty() bool {
	if s.destroyed || s.previousID != "" {
		return true
	}
	cur, err := json.Marshal(s.Data)
	if err != nil {
		return true
	}
	if s.loaded == nil {
		return string(cur) != string(emptyData())
	}
	return string(cur) != string(s.loaded)
}

func emptyData() []byte {
	b, _ := json.Marshal(Data{})
	return b
}
