package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrKeyRequired is returned by issue endpoints called without an issue key or id.
var ErrKeyRequired = errors.New("jira: issue key required")

// issuePath builds /rest/api/2/issue/{key}/parts...
func issuePath(key string, parts ...string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	return apiPath(append([]string{"issue", url.PathEscape(key)}, parts...)...), nil
}

// GetIssue fetches a single issue by key.
func (s *Service) GetIssue(ctx context.Context, key string) (*Issue, error) {
	path, err := issuePath(key)
	if err != nil {
		return nil, err
	}

	var issue Issue
	if err := s.get(ctx, path, nil, &issue); err != nil {
		return nil, fmt.Errorf("jira: get issue %s: %w", key, err)
	}
	return &issue, nil
}

// CreateIssue submits a create payload ({"fields": {...}}) and returns the created
// resource. Jira only answers with id and key.
func (s *Service) CreateIssue(ctx context.Context, payload any) (*Issue, error) {
	if payload == nil {
		return nil, fmt.Errorf("jira: issue payload required")
	}

	var created Issue
	if err := s.post(ctx, apiPath("issue"), payload, &created); err != nil {
		return nil, fmt.Errorf("jira: create issue: %w", err)
	}
	return &created, nil
}

// UpdateIssue submits an edit payload for key.
func (s *Service) UpdateIssue(ctx context.Context, key string, payload any) error {
	path, err := issuePath(key)
	if err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("jira: issue payload required")
	}

	if err := s.put(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("jira: update issue %s: %w", key, err)
	}
	return nil
}

// AssignIssue sets the assignee of key and returns the raw response status. Callers
// interpret the code; only transport failures are returned as errors.
func (s *Service) AssignIssue(ctx context.Context, key, username string) (int, error) {
	path, err := issuePath(key, "assignee")
	if err != nil {
		return 0, err
	}

	req, err := s.client.NewRequest(ctx, http.MethodPut, path, nil, map[string]string{"name": username})
	if err != nil {
		return 0, err
	}
	return s.client.Send(req)
}

// AddComment appends a comment to the issue identified by id or key.
func (s *Service) AddComment(ctx context.Context, issueID, body string) (*Comment, error) {
	path, err := issuePath(issueID, "comment")
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, fmt.Errorf("jira: comment body required")
	}

	var created Comment
	if err := s.post(ctx, path, map[string]string{"body": body}, &created); err != nil {
		return nil, fmt.Errorf("jira: comment on %s: %w", issueID, err)
	}
	return &created, nil
}
