package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ylchen07/jflow/internal/resolve"
	"github.com/ylchen07/jflow/internal/template"
)

// Options are the symbolic values supplied for an action.
type Options struct {
	Title     string
	Message   string
	Project   string
	IssueType string
	Component string
	Priority  string
	Version   string
	Assignee  string
	Reporter  string
	// Comment is attached to a transition.
	Comment string
	// Fields override configured transition field values, keyed by id or name.
	Fields map[string]string
}

// resolved is Options after defaulting and alias expansion.
type resolved struct {
	Options
	explicitAssignee bool
}

// applyDefaults fills absent options from configuration, then expands user aliases.
// Defaulting happens before any lookup so a defaulted project drives the component and
// version defaults too.
func (e *Engine) applyDefaults(opts Options) resolved {
	d := e.cfg.Defaults
	r := resolved{Options: opts, explicitAssignee: opts.Assignee != ""}

	if r.Project == "" {
		r.Project = d.Project
	}
	if r.IssueType == "" {
		r.IssueType = d.IssueType
	}
	if r.Component == "" {
		r.Component = e.cfg.DefaultComponent(r.Project)
	}
	if r.Version == "" {
		r.Version = e.cfg.DefaultVersion(r.Project)
	}
	if r.Assignee == "" {
		r.Assignee = d.Assignee
	}
	if r.Reporter == "" {
		r.Reporter = d.Reporter
	}

	r.Assignee = e.cfg.ExpandAlias(r.Assignee)
	r.Reporter = e.cfg.ExpandAlias(r.Reporter)
	return r
}

// explicitOnly expands aliases without applying any defaults; update only changes what
// the user asked for.
func (e *Engine) explicitOnly(opts Options) resolved {
	r := resolved{Options: opts, explicitAssignee: opts.Assignee != ""}
	r.Assignee = e.cfg.ExpandAlias(r.Assignee)
	r.Reporter = e.cfg.ExpandAlias(r.Reporter)
	return r
}

// defaultAssignee is the configured assignee with aliases expanded.
func (e *Engine) defaultAssignee() string {
	return e.cfg.ExpandAlias(e.cfg.Defaults.Assignee)
}

// assignee turns an explicitly supplied name into a username via user search: an exact
// username match wins, otherwise the first result. Defaulted names are used as is.
func (e *Engine) assignee(ctx context.Context, r resolved) (string, error) {
	if r.Assignee == "" || !r.explicitAssignee {
		return r.Assignee, nil
	}

	users, err := e.api.SearchUsers(ctx, r.Assignee)
	if err != nil {
		return "", fmt.Errorf("workflow: search user %q: %w", r.Assignee, err)
	}
	if user, ok := resolve.Match(users, r.Assignee); ok {
		return user.Name, nil
	}
	if len(users) > 0 {
		e.logger.Debug("assignee resolved to first search result",
			slog.String("query", r.Assignee),
			slog.String("user", users[0].Name))
		return users[0].Name, nil
	}
	return "", &resolve.NotFoundError{Kind: resolve.KindUser, Name: r.Assignee}
}

// issueKey normalises key: bare numbers get the project prefix and an empty key falls
// back to the git locator.
func (e *Engine) issueKey(ctx context.Context, key, project string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if project == "" {
		project = e.cfg.Defaults.Project
	}

	if key == "" {
		if e.locator == nil {
			return "", fmt.Errorf("workflow: issue key required")
		}
		found, err := e.locator.Current(ctx, project)
		if err != nil {
			return "", fmt.Errorf("workflow: issue key required: %w", err)
		}
		e.logger.Debug("issue key from git", slog.String("key", found))
		return found, nil
	}

	if isNumber(key) {
		if project == "" {
			return "", fmt.Errorf("workflow: issue %s needs a project, try --project \"LPS\"", key)
		}
		return strings.ToUpper(project) + "-" + key, nil
	}
	return key, nil
}

// projectOf returns the project prefix of an issue key.
func projectOf(key string) string {
	if i := strings.LastIndex(key, "-"); i > 0 {
		return key[:i]
	}
	return ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// templateContext exposes command options first, then configuration, to templated
// strings.
// expand substitutes references in s, logging those with no value.
func (e *Engine) expand(s string, ctx template.Context) string {
	for _, ref := range template.References(s) {
		if _, ok := ctx.Lookup(ref); !ok {
			e.logger.Debug("template reference has no value", slog.String("ref", ref))
		}
	}
	return template.Expand(s, ctx)
}

func (e *Engine) templateContext(key string, r resolved) template.Context {
	options := template.Values{
		"key":       key,
		"title":     r.Title,
		"message":   r.Message,
		"project":   r.Project,
		"type":      r.IssueType,
		"component": r.Component,
		"priority":  r.Priority,
		"version":   r.Version,
		"assignee":  r.Assignee,
		"reporter":  r.Reporter,
	}
	for k, v := range options {
		if v == "" {
			delete(options, k)
		}
	}

	d := e.cfg.Defaults
	cfg := template.Values{
		"user":      e.cfg.Atlassian.User,
		"site":      e.cfg.Atlassian.Site,
		"signature": e.cfg.Signature,
		"reviewer":  e.cfg.ExpandAlias(d.Reviewer),
		"project":   d.Project,
		"assignee":  e.defaultAssignee(),
		"reporter":  d.Reporter,
		"defaults": map[string]any{
			"project":    d.Project,
			"issue_type": d.IssueType,
			"assignee":   d.Assignee,
			"reporter":   d.Reporter,
			"reviewer":   d.Reviewer,
		},
	}
	return template.Chain{options, cfg}
}
