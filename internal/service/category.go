package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/repository"

	"gorm.io/gorm"
)

type CategoryService struct{ db *gorm.DB }

func NewCategoryService(db *gorm.DB) *CategoryService { return &CategoryService{db: db} }

func (s *CategoryService) List(ctx context.Context) ([]model.CategoryResponse, error) {
	db := s.db.WithContext(ctx)
	cats, err := repository.NewCategoryRepo(db).List()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	counts, err := repository.NewBoardRepo(db).CountByCategory()
	if err != nil {
		return nil, fmt.Errorf("count boards: %w", err)
	}
	out := make([]model.CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse(c, counts[c.ID])
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.CategoryResponse, error) {
	db := s.db.WithContext(ctx)
	c, err := findCategory(db, id)
	if err != nil {
		return nil, err
	}
	counts, err := repository.NewBoardRepo(db).CountByCategory()
	if err != nil {
		return nil, fmt.Errorf("count boards: %w", err)
	}
	resp := categoryResponse(*c, counts[c.ID])
	return &resp, nil
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*model.CategoryResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	c := &model.Category{Name: name, Description: strings.TrimSpace(description)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats := repository.NewCategoryRepo(tx)
		exists, err := cats.ExistsByName(name)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if exists {
			return ErrDuplicateCategory
		}
		err = cats.Create(c)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCategory
		}
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("category.create", "id", c.ID, "name", c.Name)
	resp := categoryResponse(*c, 0)
	return &resp, nil
}

func categoryResponse(c model.Category, boards int64) model.CategoryResponse {
	return model.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		BoardCount:  boards,
	}
}
