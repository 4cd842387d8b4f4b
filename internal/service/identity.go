package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/bank-ledger/internal/auth"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
)

// SignupInput carries the registration fields
type SignupInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Lastname string
}

// Signup registers a user with a lower-cased username and returns it with a fresh token
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, "", validation("Username, email and password are required")
	}
	username := strings.ToLower(in.Username)

	exists, err := s.repo.ActiveUserExists(ctx, username, in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: username,
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Lastname: in.Lastname,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", ErrDuplicateIdentity
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, token, nil
}

// Signin authenticates an active user by email and returns a fresh token.
// Unknown e-mail and wrong password fail identically.
func (s *Service) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, token, nil
}
