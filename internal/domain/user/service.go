package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpsertUser records the authenticated identity on first sight and refreshes
// mutable profile fields afterwards. CurrentFamilyID is never touched here.
func (s *Service) UpsertUser(ctx context.Context, userID, name, email string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	u := User{ID: userID, Name: strings.TrimSpace(name)}
	if email != "" {
		u.Email = &email
	}

	return s.repo.Upsert(ctx, &u)
}
