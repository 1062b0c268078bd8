package jira

import (
	"context"
	"fmt"
	"net/url"
)

// GetProject fetches a project by key.
func (s *Service) GetProject(ctx context.Context, key string) (*Project, error) {
	if key == "" {
		return nil, fmt.Errorf("jira: project key required")
	}

	var project Project
	if err := s.get(ctx, apiPath("project", url.PathEscape(key)), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListComponents returns the components of project.
func (s *Service) ListComponents(ctx context.Context, project string) ([]Component, error) {
	if project == "" {
		return nil, fmt.Errorf("jira: project key required")
	}

	var components []Component
	if err := s.get(ctx, apiPath("project", url.PathEscape(project), "components"), nil, &components); err != nil {
		return nil, err
	}
	return components, nil
}

// ListVersions returns the versions of project.
func (s *Service) ListVersions(ctx context.Context, project string) ([]Version, error) {
	if project == "" {
		return nil, fmt.Errorf("jira: project key required")
	}

	var versions []Version
	if err := s.get(ctx, apiPath("project", url.PathEscape(project), "versions"), nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
