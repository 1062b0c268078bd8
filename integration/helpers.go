package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/ylchen07/jflow/internal/atlassian"
	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/jira"
)

// requireIntegration skips the test if JFLOW_INTEGRATION is not set.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("JFLOW_INTEGRATION") == "" {
		t.Skip("JFLOW_INTEGRATION not set; skipping integration tests")
	}
}

// requireWrite skips tests that create or change issues unless JFLOW_INTEGRATION_WRITE is set.
func requireWrite(t *testing.T) {
	t.Helper()
	if os.Getenv("JFLOW_INTEGRATION_WRITE") == "" {
		t.Skip("JFLOW_INTEGRATION_WRITE not set; skipping tests that modify Jira")
	}
}

// ensureHTTPS adds https:// prefix to URLs if not already present.
func ensureHTTPS(site string) string {
	trimmed := strings.TrimSpace(site)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	return "https://" + strings.TrimRight(trimmed, "/")
}

// resolveEnv returns the first non-empty environment variable value from the provided keys.
func resolveEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

// loadConfig builds a configuration from environment variables, skipping the test when
// the site or credentials are missing.
func loadConfig(t *testing.T) *config.Config {
	t.Helper()

	site := ensureHTTPS(resolveEnv("JFLOW_ATLASSIAN_SITE", "ATLASSIAN_JIRA_SITE"))
	if site == "" {
		t.Skip("JFLOW_ATLASSIAN_SITE not set")
	}

	cfg := &config.Config{
		Atlassian: config.AtlassianConfig{
			Site:    site,
			APIBase: ensureHTTPS(os.Getenv("JFLOW_ATLASSIAN_API_BASE")),
			ServiceCredentials: config.ServiceCredentials{
				User:       resolveEnv("JFLOW_ATLASSIAN_USER", "ATLASSIAN_JIRA_USER"),
				APIToken:   resolveEnv("JFLOW_ATLASSIAN_API_TOKEN", "ATLASSIAN_JIRA_API_TOKEN"),
				OAuthToken: resolveEnv("JFLOW_ATLASSIAN_OAUTH_TOKEN", "ATLASSIAN_JIRA_OAUTH_TOKEN"),
			},
		},
		Defaults: config.Defaults{
			Project:   os.Getenv("JFLOW_TEST_PROJECT"),
			IssueType: resolveEnv("JFLOW_TEST_ISSUE_TYPE"),
		},
	}
	if comp := os.Getenv("JFLOW_TEST_COMPONENT"); comp != "" && cfg.Defaults.Project != "" {
		cfg.Defaults.Component = map[string]string{cfg.Defaults.Project: comp}
	}
	if err := cfg.ValidateCredentials(); err != nil {
		t.Skipf("Jira credentials not provided: %v", err)
	}
	return cfg
}

// setupJiraService creates the Jira service, REST and SDK clients, for cfg.
func setupJiraService(t *testing.T, cfg *config.Config) *jira.Service {
	t.Helper()

	base := cfg.Atlassian.Site
	if cfg.Atlassian.APIBase != "" {
		base = cfg.Atlassian.APIBase
	}

	client, err := atlassian.NewClient(base, cfg.Atlassian.ServiceCredentials, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sdk, err := jira.NewSDKClient(cfg.Atlassian.Site, cfg.Atlassian.ServiceCredentials)
	if err != nil {
		t.Fatalf("NewSDKClient: %v", err)
	}
	return jira.NewService(client).WithSDK(sdk)
}

// requireProject returns the project used by tests that need one.
func requireProject(t *testing.T, cfg *config.Config) string {
	t.Helper()
	if cfg.Defaults.Project == "" {
		t.Skip("JFLOW_TEST_PROJECT not set")
	}
	return cfg.Defaults.Project
}

// skipIfEmpty skips the test if the provided slice is empty with a helpful message.
func skipIfEmpty[T any](t *testing.T, items []T, itemType string) {
	t.Helper()
	if len(items) == 0 {
		t.Skipf("no %s found; cannot proceed with test", itemType)
	}
}
