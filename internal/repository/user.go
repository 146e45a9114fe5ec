package repository

import (
	"family-board/internal/model"

	"gorm.io/gorm"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo { return UserRepo{db: db} }

func (r UserRepo) Create(u *model.User) error {
	return r.db.Create(u).Error
}

func (r UserRepo) FindByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r UserRepo) FindByUsername(username string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r UserRepo) ExistsByUsername(username string) (bool, error) {
	var n int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// NamesByID returns display names keyed by user ID for the given IDs.
func (r UserRepo) NamesByID(ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID   uint
		Name string
	}
	if err := r.db.Model(&model.User{}).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}
