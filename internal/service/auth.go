package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

// Register creates a regular (non-admin) member.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	switch {
	case username == "":
		return nil, invalid("username", "username is required")
	case req.Password == "":
		return nil, invalid("password", "password is required")
	case len(req.Password) > maxPasswordBytes:
		return nil, invalid("password", "password must be at most %d bytes", maxPasswordBytes)
	case name == "":
		return nil, invalid("name", "name is required")
	}

	var u *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepo(tx)
		exists, err := users.ExistsByUsername(username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return ErrDuplicateUsername
		}
		u, err = newUser(username, req.Password, name, strings.TrimSpace(req.Email), false)
		if err != nil {
			return err
		}
		err = users.Create(u)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("auth.register", "uid", u.ID, "username", u.Username)
	return u, nil
}

// Login checks the credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := repository.NewUserRepo(s.db.WithContext(ctx)).FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// EnsureAdmin creates the administrator account if the username is free.
// It is used by the seeder; the API never grants admin rights.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, name, email string) (*model.User, error) {
	users := repository.NewUserRepo(s.db.WithContext(ctx))
	u, err := users.FindByUsername(username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	u, err = newUser(username, password, name, email, true)
	if err != nil {
		return nil, err
	}
	if err := users.Create(u); err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return u, nil
}

func newUser(username, password, name, email string, admin bool) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &model.User{
		Username: username,
		Password: string(hash),
		Name:     name,
		Email:    email,
		IsAdmin:  admin,
	}, nil
}
