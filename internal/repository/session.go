package repository

import (
	"time"

	"family-board/internal/model"

	"gorm.io/gorm"
)

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) SessionRepo { return SessionRepo{db: db} }

func (r SessionRepo) Create(s *model.Session) error {
	return r.db.Create(s).Error
}

// FindLive returns the session only if it has not expired at now.
func (r SessionRepo) FindLive(id string, now time.Time) (*model.Session, error) {
	var s model.Session
	if err := r.db.Where("id = ? AND expires_at > ?", id, now).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r SessionRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Session{}).Error
}

func (r SessionRepo) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
