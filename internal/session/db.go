package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marlanuera/CA1-Code/internal/models"
)

// DBStore keeps session data in the sessions table; the cookie only carries
// the signed id.
type DBStore struct {
	db    *gorm.DB
	codec tokenCodec
	ttl   time.Duration
}

func NewDBStore(db *gorm.DB, secret []byte, ttl time.Duration) *DBStore {
	return &DBStore{db: db, codec: tokenCodec{secret: secret, ttl: ttl}, ttl: ttl}
}

func (s *DBStore) Load(ctx context.Context, token string) (*Session, error) {
	claims, err := s.codec.parse(token)
	if err != nil {
		return nil, err
	}

	var rec models.SessionRecord
	err = s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", claims.ID, time.Now().UTC()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %s expired", ErrInvalidToken, claims.ID)
		}
		return nil, fmt.Errorf("db get session: %w", err)
	}

	sess := &Session{ID: claims.ID}
	if err := json.Unmarshal(rec.Data, &sess.Data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.markLoaded()
	return sess, nil
}

func (s *DBStore) Save(ctx context.Context, sess *Session) (string, error) {
	raw, err := json.Marshal(sess.Data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	rec := models.SessionRecord{ID: sess.ID, Data: raw, ExpiresAt: time.Now().UTC().Add(s.ttl)}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("db save session: %w", err)
	}
	return s.codec.sign(sess.ID, nil)
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SessionRecord{}).Error; err != nil {
		return fmt.Errorf("db delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions past their expiry and returns how many went.
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&models.SessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("db purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
