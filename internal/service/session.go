package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService issues and resolves login sessions. The session row lives
// in the database; the client holds an HS256 token naming that row, so a
// logout takes effect even while the token itself is still unexpired.
type SessionService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(db *gorm.DB, secret string, ttl time.Duration) *SessionService {
	return &SessionService{db: db, secret: []byte(secret), ttl: ttl, now: utcNow}
}

// Expiry comparisons run in SQL, so stored times share one zone.
func utcNow() time.Time { return time.Now().UTC() }

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Open starts a session for userID and returns the signed token with its expiry.
func (s *SessionService) Open(ctx context.Context, userID uint) (string, time.Time, error) {
	now := s.now()
	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	repo := repository.NewSessionRepo(s.db.WithContext(ctx))
	if n, err := repo.DeleteExpired(now); err != nil {
		logger.Warn("session.purge.failed", "err", err)
	} else if n > 0 {
		logger.Debug("session.purge", "removed", n)
	}
	if err := repo.Create(sess); err != nil {
		return "", time.Time{}, fmt.Errorf("insert session: %w", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, sess.ExpiresAt, nil
}

// Resolve maps a token to the caller's identity. Any forged, expired or
// revoked token yields ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)
	sess, err := repository.NewSessionRepo(db).FindLive(sid, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	u, err := repository.NewUserRepo(db).FindByID(sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find session user: %w", err)
	}
	return model.NewIdentity(u), nil
}

// Close revokes the session named by token. Unknown tokens are ignored.
func (s *SessionService) Close(ctx context.Context, token string) error {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil
	}
	if err := repository.NewSessionRepo(s.db.WithContext(ctx)).Delete(sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) sessionID(token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if claims.SID == "" {
		return "", errors.New("token without session id")
	}
	return claims.SID, nil
}
