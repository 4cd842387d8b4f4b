package service

import (
	"context"
	"errors"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
)

// ListUsers returns all active users with their active accounts attached
func (s *Service) ListUsers(ctx context.Context) ([]models.UserWithAccounts, error) {
	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	accounts, err := s.repo.ListActiveAccountsByOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[uuid.UUID][]models.Account, len(users))
	for _, a := range accounts {
		byOwner[a.Owner] = append(byOwner[a.Owner], a)
	}
	out := make([]models.UserWithAccounts, len(users))
	for i, u := range users {
		owned := byOwner[u.ID]
		if owned == nil {
			owned = []models.Account{}
		}
		out[i] = models.UserWithAccounts{User: u, Accounts: owned}
	}
	return out, nil
}

// GetUser returns an active user
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindActiveUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// DeactivateUser soft-deletes a user; the user's accounts are left untouched
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.DeactivateUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.log.Infof("User deactivated: %s", user.ID)
	return user, nil
}
