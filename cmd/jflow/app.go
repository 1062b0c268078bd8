package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	jirav2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"
	"golang.org/x/term"

	atlassianclient "github.com/ylchen07/jflow/internal/atlassian"
	"github.com/ylchen07/jflow/internal/auth"
	"github.com/ylchen07/jflow/internal/browser"
	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/credential"
	"github.com/ylchen07/jflow/internal/gitref"
	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/workflow"
)

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// newService builds the Jira service with the REST client and the SDK client.
func newService(cfg *config.Config, logger *slog.Logger) (*jira.Service, error) {
	client, sdk, err := newClients(cfg, logger)
	if err != nil {
		return nil, err
	}
	return jira.NewService(client).WithSDK(sdk), nil
}

// newClients builds the REST client and the SDK client over one HTTP client, so both
// share the timeout and the authenticating transport.
func newClients(cfg *config.Config, logger *slog.Logger) (*atlassianclient.Client, *jirav2.Client, error) {
	site := cfg.Atlassian.Site
	base := apiRoot(site, cfg.Atlassian.APIBase)

	client, err := atlassianclient.NewClient(base, cfg.Atlassian.ServiceCredentials, logger,
		atlassianclient.WithTimeout(cfg.Atlassian.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize Jira client: %w", err)
	}

	sdk, err := jira.NewSDKClient(site, cfg.Atlassian.ServiceCredentials,
		jira.WithSDKHTTPClient(client.HTTPClient()),
		jira.WithSDKUserAgent(auth.UserAgent+"/"+version))
	if err != nil {
		return nil, nil, err
	}
	return client, sdk, nil
}

func newEngine(cfg *config.Config, logger *slog.Logger, interactive bool) (*workflow.Engine, error) {
	svc, err := newService(cfg, logger)
	if err != nil {
		return nil, err
	}

	var p prompt.Prompter = prompt.NonInteractive{}
	if interactive {
		p = prompt.NewTerminal()
	}

	return workflow.New(svc, cfg,
		workflow.WithPrompter(p),
		workflow.WithOpener(browser.System{}),
		workflow.WithLocator(gitref.NewLocator("")),
		workflow.WithLogger(logger),
	), nil
}

// loadToken fills a missing API token from the keyring.
func loadToken(cfg *config.Config, logger *slog.Logger) {
	creds := cfg.Atlassian.ServiceCredentials
	if creds.OAuthToken != "" || creds.APIToken != "" || cfg.Atlassian.Site == "" {
		return
	}

	store, err := credential.Open()
	if err != nil {
		logger.Debug("keyring unavailable", slog.Any("error", err))
		return
	}
	token, err := store.Get(config.Host(cfg.Atlassian.Site))
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			logger.Debug("keyring lookup failed", slog.Any("error", err))
		}
		return
	}
	cfg.Atlassian.APIToken = token
}

// apiRoot is the URL the REST paths (/rest/api/2/...) are appended to.
func apiRoot(site, override string) string {
	root := site
	if override != "" {
		root = override
	}
	root = strings.TrimRight(root, "/")
	for _, suffix := range []string{"/rest/api/2", "/rest/api/3", "/rest/api/latest"} {
		root = strings.TrimSuffix(root, suffix)
	}
	return root
}
