package main

import (
	"context"
	"errors"
	"fmt"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/service"

	"gorm.io/gorm"
)

type people struct {
	admin, kim, lee, park *model.Identity
}

func seedPeople(ctx context.Context, db *gorm.DB) (people, error) {
	auth := service.NewAuthService(db)

	admin, err := auth.EnsureAdmin(ctx, "admin", "admin123", "Administrator", "admin@example.com")
	if err != nil {
		return people{}, err
	}
	logger.Info("seed: admin ready", "id", admin.ID)

	members := []model.RegisterRequest{
		{Username: "kimdev", Password: "password123", Name: "Kim Dev", Email: "kimdev@example.com"},
		{Username: "leecoding", Password: "password123", Name: "Lee Coding", Email: "leecoding@example.com"},
		{Username: "parkstudy", Password: "password123", Name: "Park Study", Email: "parkstudy@example.com"},
	}
	ids := make([]*model.Identity, len(members))
	for i, m := range members {
		u, err := auth.Register(ctx, m)
		if errors.Is(err, service.ErrDuplicateUsername) {
			logger.Info("seed: user already exists, logging in", "username", m.Username)
			u, err = auth.Login(ctx, m.Username, m.Password)
		}
		if err != nil {
			return people{}, fmt.Errorf("user %s: %w", m.Username, err)
		}
		ids[i] = model.NewIdentity(u)
		logger.Info("seed: user ready", "username", u.Username, "id", u.ID)
	}
	return people{admin: model.NewIdentity(admin), kim: ids[0], lee: ids[1], park: ids[2]}, nil
}

type categories struct {
	free, questions, notices uint
}

func seedCategories(ctx context.Context, db *gorm.DB) (categories, error) {
	svc := service.NewCategoryService(db)
	defs := []struct{ name, desc string }{
		{"Free Board", "A place to talk freely."},
		{"Questions", "Ask questions and get answers."},
		{"Notices", "Important announcements."},
	}
	ids := make([]uint, len(defs))
	for i, d := range defs {
		c, err := svc.Create(ctx, d.name, d.desc)
		if errors.Is(err, service.ErrDuplicateCategory) {
			id, findErr := categoryID(ctx, svc, d.name)
			if findErr != nil {
				return categories{}, findErr
			}
			logger.Info("seed: category already exists, skipping", "name", d.name)
			ids[i] = id
			continue
		}
		if err != nil {
			return categories{}, fmt.Errorf("category %s: %w", d.name, err)
		}
		ids[i] = c.ID
		logger.Info("seed: category created", "name", c.Name, "id", c.ID)
	}
	return categories{free: ids[0], questions: ids[1], notices: ids[2]}, nil
}

func categoryID(ctx context.Context, svc *service.CategoryService, name string) (uint, error) {
	list, err := svc.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range list {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("category %s not found", name)
}
