package jira

import (
	"context"
	"net/http"
	"strings"

	jirav2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"

	"github.com/ylchen07/jflow/internal/atlassian"
)

const apiPrefix = "/rest/api/2"

// Service exposes the Jira REST endpoints the workflow engine consumes.
type Service struct {
	client *atlassian.Client
	sdk    *jirav2.Client
}

// NewService creates a Jira service using the provided REST client.
func NewService(client *atlassian.Client) *Service {
	return &Service{client: client}
}

// WithSDK attaches a go-atlassian client used for account lookups.
func (s *Service) WithSDK(sdk *jirav2.Client) *Service {
	s.sdk = sdk
	return s
}

// apiPath constructs Jira API paths by joining parts with the API prefix.
func apiPath(parts ...string) string {
	builder := strings.Builder{}
	builder.WriteString(strings.TrimRight(apiPrefix, "/"))

	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			builder.WriteByte('/')
			builder.WriteString(trimmed)
		}
	}

	return builder.String()
}

func (s *Service) get(ctx context.Context, path string, query map[string]string, out any) error {
	req, err := s.client.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return s.client.Do(req, out)
}

func (s *Service) post(ctx context.Context, path string, body, out any) error {
	req, err := s.client.NewRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return s.client.Do(req, out)
}

func (s *Service) put(ctx context.Context, path string, body, out any) error {
	req, err := s.client.NewRequest(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return s.client.Do(req, out)
}
