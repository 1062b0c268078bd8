package jira

import (
	"context"
	"fmt"
)

// SearchUsers looks users up by username, display name or email.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]User, error) {
	if query == "" {
		return nil, fmt.Errorf("jira: user query required")
	}

	var users []User
	if err := s.get(ctx, apiPath("user", "search"), map[string]string{"username": query}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Myself returns the account the credentials belong to.
func (s *Service) Myself(ctx context.Context) (*User, error) {
	if s.sdk != nil {
		me, _, err := s.sdk.MySelf.Details(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("jira: myself: %w", err)
		}
		return &User{
			Name:         me.Name,
			Key:          me.Key,
			AccountID:    me.AccountID,
			DisplayName:  me.DisplayName,
			EmailAddress: me.EmailAddress,
			Active:       me.Active,
		}, nil
	}

	var me User
	if err := s.get(ctx, apiPath("myself"), nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
