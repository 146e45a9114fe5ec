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

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Window normalises a client page request: negative pages become 0 and the
// size is clamped to [1, MaxPageSize].
func Window(page, size int) repository.Window {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return repository.Window{Page: page, Size: size}
}

type BoardService struct{ db *gorm.DB }

func NewBoardService(db *gorm.DB) *BoardService { return &BoardService{db: db} }

func (s *BoardService) List(ctx context.Context, w repository.Window) (model.Page[model.BoardResponse], error) {
	db := s.db.WithContext(ctx)
	boards, total, err := repository.NewBoardRepo(db).Page(w)
	if err != nil {
		return model.Page[model.BoardResponse]{}, fmt.Errorf("list boards: %w", err)
	}
	return s.page(db, boards, w, total)
}

func (s *BoardService) ListByCategory(ctx context.Context, categoryID uint, w repository.Window) (model.Page[model.BoardResponse], error) {
	db := s.db.WithContext(ctx)
	if _, err := findCategory(db, categoryID); err != nil {
		return model.Page[model.BoardResponse]{}, err
	}
	boards, total, err := repository.NewBoardRepo(db).PageByCategory(categoryID, w)
	if err != nil {
		return model.Page[model.BoardResponse]{}, fmt.Errorf("list boards by category: %w", err)
	}
	return s.page(db, boards, w, total)
}

// Search matches keyword case-sensitively against title or content.
func (s *BoardService) Search(ctx context.Context, keyword string, w repository.Window) (model.Page[model.BoardResponse], error) {
	if strings.TrimSpace(keyword) == "" {
		return model.Page[model.BoardResponse]{}, invalid("keyword", "keyword is required")
	}
	db := s.db.WithContext(ctx)
	boards, total, err := repository.NewBoardRepo(db).Search(keyword, w)
	if err != nil {
		return model.Page[model.BoardResponse]{}, fmt.Errorf("search boards: %w", err)
	}
	return s.page(db, boards, w, total)
}

// View returns a board after counting one more view of it.
func (s *BoardService) View(ctx context.Context, id uint) (*model.BoardResponse, error) {
	var resp *model.BoardResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boards := repository.NewBoardRepo(tx)
		n, err := boards.IncrementViewCount(id)
		if err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		if n == 0 {
			return ErrBoardNotFound
		}
		b, err := boards.FindByID(id)
		if err != nil {
			return fmt.Errorf("reload board: %w", err)
		}
		out, err := s.responses(tx, []model.Board{*b})
		if err != nil {
			return err
		}
		resp = &out[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Create posts a board. A signed-in author is taken from ident; anonymous
// posts must name their author.
func (s *BoardService) Create(ctx context.Context, ident *model.Identity, req model.BoardRequest) (*model.BoardResponse, error) {
	if err := validateBoard(req); err != nil {
		return nil, err
	}
	b := &model.Board{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	}
	if ident != nil {
		uid := ident.UserID
		b.UserID = &uid
		b.Author = ident.Name
		b.IsAdminPost = ident.IsAdmin
	} else {
		b.Author = strings.TrimSpace(req.Author)
		if b.Author == "" {
			return nil, invalid("author", "author is required")
		}
	}

	db := s.db.WithContext(ctx)
	var out []model.BoardResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findCategory(tx, req.CategoryID); err != nil {
			return err
		}
		if err := repository.NewBoardRepo(tx).Create(b); err != nil {
			return fmt.Errorf("insert board: %w", err)
		}
		var err error
		out, err = s.responses(tx, []model.Board{*b})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("board.create", "id", b.ID, "category", b.CategoryID, "author", b.Author, "anonymous", ident == nil)
	return &out[0], nil
}

// Update replaces the title, content and category of a board.
func (s *BoardService) Update(ctx context.Context, id uint, req model.BoardRequest) (*model.BoardResponse, error) {
	if err := validateBoard(req); err != nil {
		return nil, err
	}
	var out []model.BoardResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boards := repository.NewBoardRepo(tx)
		b, err := boards.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		if err != nil {
			return fmt.Errorf("find board: %w", err)
		}
		if _, err := findCategory(tx, req.CategoryID); err != nil {
			return err
		}
		b.Title, b.Content, b.CategoryID = req.Title, req.Content, req.CategoryID
		if err := boards.UpdateContent(b); err != nil {
			return fmt.Errorf("update board: %w", err)
		}
		out, err = s.responses(tx, []model.Board{*b})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *BoardService) Delete(ctx context.Context, id uint) error {
	n, err := repository.NewBoardRepo(s.db.WithContext(ctx)).Delete(id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n == 0 {
		return ErrBoardNotFound
	}
	logger.Info("board.delete", "id", id)
	return nil
}

func (s *BoardService) page(db *gorm.DB, boards []model.Board, w repository.Window, total int64) (model.Page[model.BoardResponse], error) {
	content, err := s.responses(db, boards)
	if err != nil {
		return model.Page[model.BoardResponse]{}, err
	}
	return model.NewPage(content, w.Page, w.Size, total), nil
}

// responses attaches category names, looked up in one query.
func (s *BoardService) responses(db *gorm.DB, boards []model.Board) ([]model.BoardResponse, error) {
	ids := make([]uint, 0, len(boards))
	for _, b := range boards {
		ids = append(ids, b.CategoryID)
	}
	names, err := repository.NewCategoryRepo(db).NamesByID(ids)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}
	out := make([]model.BoardResponse, len(boards))
	for i, b := range boards {
		out[i] = model.BoardResponse{
			ID:           b.ID,
			Title:        b.Title,
			Content:      b.Content,
			Author:       b.Author,
			UserID:       b.UserID,
			CategoryID:   b.CategoryID,
			CategoryName: names[b.CategoryID],
			CreatedAt:    b.CreatedAt,
			UpdatedAt:    b.UpdatedAt,
			ViewCount:    b.ViewCount,
			IsAdminPost:  b.IsAdminPost,
		}
	}
	return out, nil
}

func validateBoard(req model.BoardRequest) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return invalid("title", "title is required")
	case strings.TrimSpace(req.Content) == "":
		return invalid("content", "content is required")
	case req.CategoryID == 0:
		return invalid("categoryId", "categoryId is required")
	}
	return nil
}

func findCategory(db *gorm.DB, id uint) (*model.Category, error) {
	c, err := repository.NewCategoryRepo(db).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}
