package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ylchen07/jflow/internal/atlassian"
	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/payload"
	"github.com/ylchen07/jflow/internal/resolve"
	"github.com/ylchen07/jflow/internal/template"
)

// selection holds the entities resolved for a create or update.
type selection struct {
	issueType *jira.IssueType
	project   *jira.Project
	component *jira.Component
	priority  *jira.Priority
	version   *jira.Version
	assignee  string
}

// New creates an issue. The chain is issue type, project, component, then the optional
// priority and version, then the assignee search; the first failure aborts before the
// create call.
func (e *Engine) New(ctx context.Context, opts Options) (*Result, error) {
	r := e.applyDefaults(opts)
	if r.Title == "" {
		return nil, fmt.Errorf("workflow: a title is required, try --title \"Fix login\"")
	}

	issueType, err := resolve.ByName(ctx, resolve.KindIssueType, r.IssueType, e.api.ListIssueTypes)
	if err != nil {
		return nil, err
	}
	project, err := e.project(ctx, r.Project)
	if err != nil {
		return nil, err
	}
	component, err := resolve.ByName(ctx, resolve.KindComponent, r.Component, e.componentsOf(project.Key))
	if err != nil {
		return nil, err
	}

	sel := selection{issueType: &issueType, project: &project, component: &component}
	if err := e.optionals(ctx, project.Key, r, &sel); err != nil {
		return nil, err
	}
	if sel.assignee, err = e.assignee(ctx, r); err != nil {
		return nil, err
	}

	fields := e.fields(r, sel)
	fields.Set("project", payload.WithID(project.ID))
	if r.Reporter != "" && r.Reporter != e.Me() {
		fields.Set("reporter", payload.Named(r.Reporter))
	}

	body := payload.Object().Set("fields", fields)
	payload.Expand(body, template.Func(e.templateContext("", r)))

	e.logger.Debug("creating issue",
		slog.String("project", project.Key),
		slog.String("type", issueType.Name),
		slog.Any("summary", body.Lookup("fields.summary").Value()))
	created, err := e.api.CreateIssue(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("workflow: create issue: %w", err)
	}

	return &Result{
		Action:  ActionNew,
		Key:     created.Key,
		Message: fmt.Sprintf("Created %s.", created.Key),
	}, nil
}

// Update edits the issue with the explicitly supplied options only. Names are resolved
// like New but all of them are optional; the project comes from --project or the key
// prefix. Empty values are pruned before submission.
func (e *Engine) Update(ctx context.Context, key string, opts Options) (*Result, error) {
	r := e.explicitOnly(opts)

	projectKey := r.Project
	if projectKey == "" {
		projectKey = projectOf(key)
	}

	var sel selection
	issueType, ok, err := resolve.Optional(ctx, resolve.KindIssueType, r.IssueType, e.api.ListIssueTypes)
	if err != nil {
		return nil, err
	}
	if ok {
		sel.issueType = &issueType
	}

	if projectKey != "" {
		project, err := e.project(ctx, projectKey)
		if err != nil {
			return nil, err
		}
		sel.project = &project
	} else if r.Component != "" || r.Version != "" {
		return nil, &resolve.NotFoundError{Kind: resolve.KindProject}
	}

	if sel.project != nil {
		component, ok, err := resolve.Optional(ctx, resolve.KindComponent, r.Component, e.componentsOf(sel.project.Key))
		if err != nil {
			return nil, err
		}
		if ok {
			sel.component = &component
		}
	}

	if err := e.optionals(ctx, projectKey, r, &sel); err != nil {
		return nil, err
	}
	if sel.assignee, err = e.assignee(ctx, r); err != nil {
		return nil, err
	}

	body := payload.Object().Set("fields", e.fields(r, sel))
	payload.Expand(body, template.Func(e.templateContext(key, r)))
	payload.Prune(body)
	if body.Len() == 0 {
		return nil, fmt.Errorf("workflow: nothing to update on %s", key)
	}

	e.logger.Debug("updating issue", slog.String("issue", key), slog.Any("fields", body.Lookup("fields").Keys()))
	if err := e.api.UpdateIssue(ctx, key, body); err != nil {
		return nil, fmt.Errorf("workflow: update %s: %w", key, err)
	}

	return &Result{Action: ActionUpdate, Key: key, Message: fmt.Sprintf("Updated %s.", key)}, nil
}

// optionals resolves priority and version. Neither is looked up when not supplied.
func (e *Engine) optionals(ctx context.Context, projectKey string, r resolved, sel *selection) error {
	priority, ok, err := resolve.Optional(ctx, resolve.KindPriority, r.Priority, e.api.ListPriorities)
	if err != nil {
		return err
	}
	if ok {
		sel.priority = &priority
	}

	version, ok, err := resolve.Optional(ctx, resolve.KindVersion, r.Version, e.versionsOf(projectKey))
	if err != nil {
		return err
	}
	if ok {
		sel.version = &version
	}
	return nil
}

// fields assembles the shared part of create and update payloads.
func (e *Engine) fields(r resolved, sel selection) *payload.Node {
	fields := payload.Object().
		Set("summary", payload.String(r.Title)).
		Set("description", payload.String(r.Message))

	if sel.issueType != nil {
		fields.Set("issuetype", payload.WithID(sel.issueType.ID))
	}
	if sel.component != nil {
		fields.Set("components", payload.Array(payload.WithID(sel.component.ID)))
	}
	if sel.assignee != "" {
		fields.Set("assignee", payload.Named(sel.assignee))
	}
	if sel.priority != nil {
		fields.Set("priority", payload.WithID(sel.priority.ID))
	}
	if sel.version != nil {
		fields.Set("versions", payload.Array(payload.WithID(sel.version.ID)))
	}
	return fields
}

// project fetches a project by key, mapping a 404 onto NotFoundError.
func (e *Engine) project(ctx context.Context, key string) (jira.Project, error) {
	return resolve.ByName(ctx, resolve.KindProject, key, func(ctx context.Context) ([]jira.Project, error) {
		project, err := e.api.GetProject(ctx, key)
		var apiErr *atlassian.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []jira.Project{*project}, nil
	})
}

func (e *Engine) componentsOf(project string) resolve.ListFunc[jira.Component] {
	return func(ctx context.Context) ([]jira.Component, error) {
		return e.api.ListComponents(ctx, project)
	}
}

func (e *Engine) versionsOf(project string) resolve.ListFunc[jira.Version] {
	return func(ctx context.Context) ([]jira.Version, error) {
		return e.api.ListVersions(ctx, project)
	}
}
