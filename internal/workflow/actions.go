package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ylchen07/jflow/internal/browser"
	"github.com/ylchen07/jflow/internal/transition"
)

// AssignError reports a non-204 answer to an assign request.
type AssignError struct {
	Key    string
	Status int
}

func (e *AssignError) Error() string {
	return e.Message()
}

// Message maps the status onto the user-facing explanation.
func (e *AssignError) Message() string {
	switch e.Status {
	case http.StatusBadRequest:
		return "There is a problem with the received user representation."
	case http.StatusUnauthorized:
		return "Calling user does not have permission to assign the issue."
	case http.StatusNotFound:
		return "Either the issue or the user does not exist."
	default:
		return fmt.Sprintf("Unable to assign %s, status %d.", e.Key, e.Status)
	}
}

// Comment fetches the issue, expands body and the configured signature, and adds the
// comment by issue id.
func (e *Engine) Comment(ctx context.Context, key, body string, opts Options) (*Result, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("workflow: comment body required")
	}

	issue, err := e.api.GetIssue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("workflow: fetch %s: %w", key, err)
	}

	ctxValues := e.templateContext(issue.Key, e.explicitOnly(opts))
	text := e.expand(body, ctxValues)
	if sig := strings.TrimSpace(e.cfg.Signature); sig != "" {
		text = strings.TrimRight(text, "\n") + "\n\n" + e.expand(sig, ctxValues)
	}

	id := issue.ID
	if id == "" {
		id = key
	}
	if _, err := e.api.AddComment(ctx, id, text); err != nil {
		return nil, fmt.Errorf("workflow: comment on %s: %w", key, err)
	}

	return &Result{Action: ActionComment, Key: key, Message: fmt.Sprintf("Commented on %s.", key)}, nil
}

// Assign sets the assignee of key with a single request. user may be an alias.
func (e *Engine) Assign(ctx context.Context, key, user string) (*Result, error) {
	name := e.cfg.ExpandAlias(user)
	if name == "" {
		name = e.defaultAssignee()
	}
	return e.assignTo(ctx, key, name)
}

// assignTo assigns key to name exactly as given.
func (e *Engine) assignTo(ctx context.Context, key, name string) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("workflow: assignee required, try --assign \"username\"")
	}

	status, err := e.api.AssignIssue(ctx, key, name)
	if err != nil {
		return nil, fmt.Errorf("workflow: assign %s: %w", key, err)
	}
	e.logger.Debug("assign response", slog.String("issue", key), slog.Int("status", status))
	if status != http.StatusNoContent {
		return nil, &AssignError{Key: key, Status: status}
	}

	return &Result{Action: ActionAssign, Key: key, Message: fmt.Sprintf("Assigned %s to %s.", key, name)}, nil
}

// Browse opens the issue page. Nothing is written to Jira.
func (e *Engine) Browse(_ context.Context, key string) (*Result, error) {
	u, err := browser.IssueURL(e.cfg.Atlassian.Site, key)
	if err != nil {
		return nil, err
	}
	if err := e.opener.Open(u); err != nil {
		return nil, err
	}
	return &Result{Action: ActionBrowse, Key: key, URL: u, Message: fmt.Sprintf("Opened %s.", u)}, nil
}

// Transition moves key through the transition called name. The assignee is the
// explicit one, resolved through user search, else the configured default.
func (e *Engine) Transition(ctx context.Context, key, name string, opts Options) (*Result, error) {
	req, err := e.transitionRequest(ctx, key, opts)
	if err != nil {
		return nil, err
	}
	req.Name = name

	t, err := e.transitions.Apply(ctx, key, req)
	if err != nil {
		return nil, err
	}
	return &Result{Action: ActionTransition, Key: key, Message: transitionMessage(key, t.Name, t.To.Name)}, nil
}

// Menu asks what to do with key and dispatches the choice.
func (e *Engine) Menu(ctx context.Context, key string, opts Options) (*Result, error) {
	sel, err := e.transitions.Menu(ctx, key, transition.MenuOptions{
		Me:              e.Me(),
		DefaultAssignee: e.defaultAssignee(),
	})
	if err != nil {
		return nil, err
	}

	switch sel.Action {
	case transition.ActionAssign:
		return e.assignTo(ctx, key, sel.Assignee)
	case transition.ActionBrowse:
		return e.Browse(ctx, key)
	case transition.ActionTransition:
		req, err := e.transitionRequest(ctx, key, opts)
		if err != nil {
			return nil, err
		}
		req.Name = sel.Transition.Name
		if err := e.transitions.Submit(ctx, key, sel.Transition, req); err != nil {
			return nil, err
		}
		return &Result{
			Action:  ActionTransition,
			Key:     key,
			Message: transitionMessage(key, sel.Transition.Name, sel.Transition.To.Name),
		}, nil
	default:
		return &Result{Action: ActionTransition, Key: key, Message: "Nothing to do."}, nil
	}
}

func (e *Engine) transitionRequest(ctx context.Context, key string, opts Options) (transition.Request, error) {
	r := e.explicitOnly(opts)
	assignee, err := e.assignee(ctx, r)
	if err != nil {
		return transition.Request{}, err
	}
	if assignee == "" {
		assignee = e.defaultAssignee()
	}

	comment := opts.Comment
	if comment != "" {
		comment = e.expand(comment, e.templateContext(key, r))
	}
	return transition.Request{Assignee: assignee, Comment: comment, Fields: opts.Fields}, nil
}

func transitionMessage(key, name, to string) string {
	if to == "" {
		return fmt.Sprintf("%s: %s.", key, name)
	}
	return fmt.Sprintf("%s: %s, now %s.", key, name, to)
}
