package repository

import (
	"family-board/internal/model"

	"gorm.io/gorm"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) CategoryRepo { return CategoryRepo{db: db} }

func (r CategoryRepo) Create(c *model.Category) error {
	return r.db.Create(c).Error
}

func (r CategoryRepo) List() ([]model.Category, error) {
	var out []model.Category
	err := r.db.Order("id").Find(&out).Error
	return out, err
}

func (r CategoryRepo) FindByID(id uint) (*model.Category, error) {
	var c model.Category
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CategoryRepo) ExistsByName(name string) (bool, error) {
	var n int64
	err := r.db.Model(&model.Category{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r CategoryRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Category{}).Count(&n).Error
	return n, err
}

// NamesByID returns category names keyed by ID for the given IDs.
func (r CategoryRepo) NamesByID(ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.Category
	if err := r.db.Select("id, name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}
