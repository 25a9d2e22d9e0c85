package auth

import (
	"context"
	"fmt"

	"lemonspace/internal/model"
	"lemonspace/internal/repository"

	"github.com/google/uuid"
)

// AccountAPI resolves a session token to its principal.
type AccountAPI interface {
	Account(ctx context.Context, sessionToken string) (*model.Principal, error)
}

// LocalAccounts answers session checks from locally issued tokens and the users table.
type LocalAccounts struct {
	tokens *TokenManager
	users  repository.UserRepositoryInterface
}

var _ AccountAPI = (*LocalAccounts)(nil)

func NewLocalAccounts(tokens *TokenManager, users repository.UserRepositoryInterface) *LocalAccounts {
	return &LocalAccounts{tokens: tokens, users: users}
}

func (a *LocalAccounts) Account(ctx context.Context, sessionToken string) (*model.Principal, error) {
	userID, err := a.tokens.Parse(sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id", ErrNoSession)
	}

	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account %s no longer exists", ErrNoSession, id)
	}
	return user.Principal(), nil
}

// CheckFor binds a session token to an account API for use by a Gate.
func CheckFor(api AccountAPI, sessionToken string) SessionCheck {
	return func(ctx context.Context) (*model.Principal, error) {
		if sessionToken == "" {
			return nil, ErrNoSession
		}
		return api.Account(ctx, sessionToken)
	}
}
