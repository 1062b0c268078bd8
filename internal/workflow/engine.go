// Package workflow sequences the issue lifecycle actions: it applies configured
// defaults, resolves symbolic names, assembles payloads and submits them.
package workflow

import (
	"context"
	"log/slog"

	"github.com/ylchen07/jflow/internal/browser"
	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/transition"
	"github.com/ylchen07/jflow/pkg/logging"
)

// API is the remote surface the engine consumes. *jira.Service satisfies it.
type API interface {
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
	ListIssueTypes(ctx context.Context) ([]jira.IssueType, error)
	ListPriorities(ctx context.Context) ([]jira.Priority, error)
	GetProject(ctx context.Context, key string) (*jira.Project, error)
	ListComponents(ctx context.Context, project string) ([]jira.Component, error)
	ListVersions(ctx context.Context, project string) ([]jira.Version, error)
	SearchUsers(ctx context.Context, query string) ([]jira.User, error)
	CreateIssue(ctx context.Context, body any) (*jira.Issue, error)
	UpdateIssue(ctx context.Context, key string, body any) error
	AddComment(ctx context.Context, issueID, body string) (*jira.Comment, error)
	AssignIssue(ctx context.Context, key, username string) (int, error)
	transition.API
}

// Locator guesses the current issue key when none is given.
type Locator interface {
	Current(ctx context.Context, project string) (string, error)
}

// Engine runs workflow actions against one Jira site.
type Engine struct {
	api         API
	cfg         *config.Config
	prompter    prompt.Prompter
	opener      browser.Opener
	locator     Locator
	logger      *slog.Logger
	transitions *transition.Resolver
}

// Option customises an Engine.
type Option func(*Engine)

// WithPrompter sets the interactive prompter. The default refuses to prompt.
func WithPrompter(p prompt.Prompter) Option {
	return func(e *Engine) {
		if p != nil {
			e.prompter = p
		}
	}
}

// WithOpener sets how URLs are opened.
func WithOpener(o browser.Opener) Option {
	return func(e *Engine) {
		if o != nil {
			e.opener = o
		}
	}
}

// WithLocator sets the current-issue fallback.
func WithLocator(l Locator) Option {
	return func(e *Engine) {
		e.locator = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an Engine.
func New(api API, cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = &config.Config{}
	}
	e := &Engine{
		api:      api,
		cfg:      cfg,
		prompter: prompt.NonInteractive{},
		opener:   browser.System{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.transitions = transition.NewResolver(api, cfg, e.prompter, e.logger)
	return e
}

// Me is the acting user, the configured account name.
func (e *Engine) Me() string {
	return e.cfg.Atlassian.User
}

// Transitions exposes the transition resolver bound to the engine's prompter.
func (e *Engine) Transitions() *transition.Resolver {
	return e.transitions
}
