package jira

import "context"

// ListIssueTypes returns every issue type visible to the caller.
func (s *Service) ListIssueTypes(ctx context.Context) ([]IssueType, error) {
	var types []IssueType
	if err := s.get(ctx, apiPath("issuetype"), nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListPriorities returns every priority.
func (s *Service) ListPriorities(ctx context.Context) ([]Priority, error) {
	var priorities []Priority
	if err := s.get(ctx, apiPath("priority"), nil, &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}
