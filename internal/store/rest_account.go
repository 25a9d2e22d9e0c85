package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lemonspace/internal/model"
)

// Account returns the principal behind a session JWT issued by the hosted backend.
func (s *RESTStore) Account(ctx context.Context, sessionJWT string) (*model.Principal, error) {
	headers := map[string]string{"X-Appwrite-JWT": sessionJWT}
	raw, err := s.makeRequest(ctx, "account", http.MethodGet, "/account", nil, headers)
	if err != nil {
		return nil, err
	}

	var account struct {
		ID    string `json:"$id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, Failed("account", fmt.Errorf("failed to decode account: %w", err))
	}
	if account.ID == "" {
		return nil, &Error{Op: "account", Status: http.StatusUnauthorized, Message: "no session", Err: ErrUnauthorized}
	}

	return &model.Principal{ID: account.ID, Name: account.Name, Email: account.Email}, nil
}
