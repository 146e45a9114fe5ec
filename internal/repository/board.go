package repository

import (
	"family-board/internal/model"

	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

type BoardRepo struct{ db *gorm.DB }

func NewBoardRepo(db *gorm.DB) BoardRepo { return BoardRepo{db: db} }

func (r BoardRepo) Create(b *model.Board) error {
	return r.db.Create(b).Error
}

func (r BoardRepo) FindByID(id uint) (*model.Board, error) {
	var b model.Board
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateContent rewrites the editable columns of b.
func (r BoardRepo) UpdateContent(b *model.Board) error {
	return r.db.Model(b).Select("title", "content", "category_id").Updates(b).Error
}

func (r BoardRepo) Delete(id uint) (int64, error) {
	res := r.db.Delete(&model.Board{}, id)
	return res.RowsAffected, res.Error
}

// IncrementViewCount bumps view_count in a single UPDATE so concurrent
// viewers never lose increments to a read-modify-write race.
func (r BoardRepo) IncrementViewCount(id uint) (int64, error) {
	res := r.db.Model(&model.Board{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	return res.RowsAffected, res.Error
}

func (r BoardRepo) Page(w Window) ([]model.Board, int64, error) {
	return r.page(w, nil)
}

func (r BoardRepo) PageByCategory(categoryID uint, w Window) ([]model.Board, int64, error) {
	return r.page(w, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	})
}

func (r BoardRepo) Search(keyword string, w Window) ([]model.Board, int64, error) {
	clause := containsClause(r.db)
	return r.page(w, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause, keyword, keyword)
	})
}

// CountByCategory tallies boards per category ID.
func (r BoardRepo) CountByCategory() (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := r.db.Model(&model.Board{}).
		Select("category_id, COUNT(*) AS total").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Total
	}
	return out, nil
}

func (r BoardRepo) page(w Window, filter func(*gorm.DB) *gorm.DB) ([]model.Board, int64, error) {
	scopes := []func(*gorm.DB) *gorm.DB{}
	if filter != nil {
		scopes = append(scopes, filter)
	}

	var total int64
	if err := r.db.Model(&model.Board{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boards []model.Board
	err := r.db.Scopes(scopes...).
		Order(newestFirst).
		Scopes(paginate(w)).
		Find(&boards).Error
	if err != nil {
		return nil, 0, err
	}
	return boards, total, nil
}
