package service

import (
	"context"
	"fmt"

	"mistressbot/internal/model"
	"mistressbot/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store *store.Store
}

func NewAuthService(st *store.Store) *AuthService { return &AuthService{store: st} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Operator, error) {
	op, err := s.store.GetOperator(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("operator not found: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong password")
	}
	return op, nil
}
