package jira

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jirav2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"

	"github.com/ylchen07/jflow/internal/auth"
	"github.com/ylchen07/jflow/internal/config"
)

// SDKOption customises construction of the go-atlassian Jira v2 client.
type SDKOption func(*jirav2.Client)

// WithSDKUserAgent sets a custom user agent on the SDK client.
func WithSDKUserAgent(agent string) SDKOption {
	return func(client *jirav2.Client) {
		if strings.TrimSpace(agent) != "" {
			client.Auth.SetUserAgent(agent)
		}
	}
}

// WithSDKHTTPClient overrides the HTTP client used by the SDK.
// The SDK keeps the pointer, so configure transport and timeouts before passing it in.
func WithSDKHTTPClient(httpClient *http.Client) SDKOption {
	return func(client *jirav2.Client) {
		if httpClient != nil {
			client.HTTP = httpClient
		}
	}
}

// NewSDKClient creates a Jira REST API v2 client backed by the go-atlassian SDK.
// OAuth tokens take precedence over user/API token basic auth.
func NewSDKClient(site string, creds config.ServiceCredentials, opts ...SDKOption) (*jirav2.Client, error) {
	trimmedSite := strings.TrimRight(strings.TrimSpace(site), "/")
	if trimmedSite == "" {
		return nil, fmt.Errorf("jira: site is required to construct sdk client")
	}

	client, err := jirav2.New(&http.Client{Timeout: 30 * time.Second}, trimmedSite)
	if err != nil {
		return nil, fmt.Errorf("jira: initialise sdk client: %w", err)
	}

	client.Auth.SetUserAgent(auth.UserAgent)

	for _, opt := range opts {
		opt(client)
	}

	switch {
	case strings.TrimSpace(creds.OAuthToken) != "":
		client.Auth.SetBearerToken(creds.OAuthToken)
	case strings.TrimSpace(creds.User) != "" && strings.TrimSpace(creds.APIToken) != "":
		client.Auth.SetBasicAuth(creds.User, creds.APIToken)
	default:
		return nil, &config.CredentialsError{Reason: "insufficient credentials for jira sdk client"}
	}

	return client, nil
}
