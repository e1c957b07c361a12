package service

import (
	"context"
	"errors"
	"strings"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts and session tokens.
type UserService struct {
	users storage.UserStore
	auths storage.AuthStore
	cost  int
}

func NewUserService(users storage.UserStore, auths storage.AuthStore) *UserService {
	return &UserService{
		users: users,
		auths: auths,
		cost:  bcrypt.DefaultCost,
	}
}

// Register creates the account and logs it in.
func (s *UserService) Register(ctx context.Context, username, password, email string) (model.Auth, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return model.Auth{}, newError(KindBadRequest, "username, password and email are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.Auth{}, wrapError(KindBadRequest, "password cannot be used", err)
	}
	err = s.users.CreateUser(ctx, model.User{Username: username, Password: string(hash), Email: email})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return model.Auth{}, newError(KindAlreadyTaken, "username is taken")
	}
	if err != nil {
		return model.Auth{}, wrapError(KindPersistence, "could not create user", err)
	}
	return s.issue(ctx, username)
}

func (s *UserService) Login(ctx context.Context, username, password string) (model.Auth, error) {
	user, err := s.users.GetUser(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		return model.Auth{}, ErrAuthenticationFailed
	}
	if err != nil {
		return model.Auth{}, wrapError(KindPersistence, "could not load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.Auth{}, ErrAuthenticationFailed
	}
	return s.issue(ctx, user.Username)
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	err := s.auths.DeleteAuth(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrAuthenticationFailed
	}
	if err != nil {
		return wrapError(KindPersistence, "could not delete session", err)
	}
	return nil
}

// Resolve maps a session token to its username.
func (s *UserService) Resolve(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrAuthenticationFailed
	}
	auth, err := s.auths.GetAuth(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrAuthenticationFailed
	}
	if err != nil {
		return "", wrapError(KindPersistence, "could not verify session", err)
	}
	return auth.Username, nil
}

func (s *UserService) issue(ctx context.Context, username string) (model.Auth, error) {
	auth := model.Auth{Token: uuid.NewString(), Username: username}
	if err := s.auths.CreateAuth(ctx, auth); err != nil {
		return model.Auth{}, wrapError(KindPersistence, "could not create session", err)
	}
	return auth, nil
}
