package jira

import (
	"context"
	"fmt"
)

type transitionList struct {
	Transitions []Transition `json:"transitions"`
}

// ListTransitions returns the transitions valid from the issue's current status. The
// fields expansion makes each transition carry its screen schema.
func (s *Service) ListTransitions(ctx context.Context, key string) ([]Transition, error) {
	path, err := issuePath(key, "transitions")
	if err != nil {
		return nil, err
	}

	var list transitionList
	if err := s.get(ctx, path, map[string]string{"expand": "transitions.fields"}, &list); err != nil {
		return nil, fmt.Errorf("jira: list transitions of %s: %w", key, err)
	}
	return list.Transitions, nil
}

// TransitionIssue posts a transition body ({"transition": {"id"}, "fields", "update"}).
// Jira answers 204 on success.
func (s *Service) TransitionIssue(ctx context.Context, key string, payload any) error {
	path, err := issuePath(key, "transitions")
	if err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("jira: transition payload required")
	}

	if err := s.post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("jira: transition %s: %w", key, err)
	}
	return nil
}
