package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ylchen07/jflow/internal/browser"
	"github.com/ylchen07/jflow/internal/resolve"
	"github.com/ylchen07/jflow/internal/state"
	"github.com/ylchen07/jflow/internal/transition"
	"github.com/ylchen07/jflow/internal/workflow"
)

// WorkflowTools wires the workflow engine into MCP tools.
type WorkflowTools struct {
	engine  *workflow.Engine
	session *state.Session
	siteURL string
	logger  *slog.Logger
}

// NewWorkflowTools registers the workflow tools on the server.
func NewWorkflowTools(s *server.MCPServer, engine *workflow.Engine, session *state.Session, siteURL string, logger *slog.Logger) *WorkflowTools {
	if logger == nil {
		logger = slog.Default()
	}
	wt := &WorkflowTools{
		engine:  engine,
		session: session,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  logger,
	}

	s.AddTool(
		mcp.NewTool(
			"jira.new_issue",
			mcp.WithDescription("Create an issue. Names are resolved exactly; omitted project, type, component and version fall back to configured defaults"),
			mcp.WithInputSchema[NewIssueArgs](),
			mcp.WithOutputSchema[IssueResult](),
		),
		mcp.NewTypedToolHandler(wt.handleNewIssue),
	)

	s.AddTool(
		mcp.NewTool(
			"jira.update_issue",
			mcp.WithDescription("Update an issue with only the supplied values"),
			mcp.WithInputSchema[UpdateIssueArgs](),
			mcp.WithOutputSchema[IssueResult](),
		),
		mcp.NewTypedToolHandler(wt.handleUpdateIssue),
	)

	s.AddTool(
		mcp.NewTool(
			"jira.add_comment",
			mcp.WithDescription("Comment on an issue; {{ reference }} templates and the configured signature are applied"),
			mcp.WithInputSchema[AddCommentArgs](),
			mcp.WithOutputSchema[IssueResult](),
		),
		mcp.NewTypedToolHandler(wt.handleAddComment),
	)

	s.AddTool(
		mcp.NewTool(
			"jira.list_transitions",
			mcp.WithDescription("List the transitions valid for an issue's current status, with their fields"),
			mcp.WithInputSchema[ListTransitionsArgs](),
			mcp.WithOutputSchema[TransitionsResult](),
		),
		mcp.NewTypedToolHandler(wt.handleListTransitions),
	)

	s.AddTool(
		mcp.NewTool(
			"jira.transition_issue",
			mcp.WithDescription("Move an issue through a transition given by its exact name"),
			mcp.WithInputSchema[TransitionIssueArgs](),
			mcp.WithOutputSchema[IssueResult](),
		),
		mcp.NewTypedToolHandler(wt.handleTransitionIssue),
	)

	s.AddTool(
		mcp.NewTool(
			"jira.assign_issue",
			mcp.WithDescription("Assign an issue to a user or configured alias"),
			mcp.WithInputSchema[AssignIssueArgs](),
			mcp.WithOutputSchema[IssueResult](),
		),
		mcp.NewTypedToolHandler(wt.handleAssignIssue),
	)

	return wt
}

// IssueResult acknowledges a change to one issue.
type IssueResult struct {
	Key     string `json:"key"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message"`
}

// NewIssueArgs parameters for creating an issue.
type NewIssueArgs struct {
	Summary     string `json:"summary" jsonschema:"required" jsonschema_description:"Issue summary"`
	Description string `json:"description,omitempty" jsonschema_description:"Issue description, may use {{ reference }} templates"`
	Project     string `json:"project,omitempty" jsonschema_description:"Project key, e.g. LPS"`
	IssueType   string `json:"issueType,omitempty" jsonschema_description:"Issue type name, e.g. Bug"`
	Component   string `json:"component,omitempty" jsonschema_description:"Component name"`
	Priority    string `json:"priority,omitempty" jsonschema_description:"Priority name"`
	Version     string `json:"version,omitempty" jsonschema_description:"Affects version name"`
	Assignee    string `json:"assignee,omitempty" jsonschema_description:"Username, alias or search text"`
	Reporter    string `json:"reporter,omitempty" jsonschema_description:"Reporter username or alias"`
}

// UpdateIssueArgs parameters for updating an issue.
type UpdateIssueArgs struct {
	Key         string `json:"key,omitempty" jsonschema_description:"Issue key; defaults to the last issue used in this session"`
	Summary     string `json:"summary,omitempty" jsonschema_description:"New summary"`
	Description string `json:"description,omitempty" jsonschema_description:"New description"`
	Project     string `json:"project,omitempty" jsonschema_description:"Project owning components and versions; defaults to the key prefix"`
	IssueType   string `json:"issueType,omitempty" jsonschema_description:"Issue type name"`
	Component   string `json:"component,omitempty" jsonschema_description:"Component name"`
	Priority    string `json:"priority,omitempty" jsonschema_description:"Priority name"`
	Version     string `json:"version,omitempty" jsonschema_description:"Affects version name"`
	Assignee    string `json:"assignee,omitempty" jsonschema_description:"Username, alias or search text"`
}

// AddCommentArgs parameters for commenting.
type AddCommentArgs struct {
	Key  string `json:"key,omitempty" jsonschema_description:"Issue key; defaults to the last issue used in this session"`
	Body string `json:"body" jsonschema:"required" jsonschema_description:"Comment text"`
}

// ListTransitionsArgs parameters for listing transitions.
type ListTransitionsArgs struct {
	Key string `json:"key,omitempty" jsonschema_description:"Issue key; defaults to the last issue used in this session"`
}

// TransitionField describes one field of a transition screen.
type TransitionField struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Allowed  []string `json:"allowed,omitempty"`
}

// TransitionInfo describes a transition valid for the issue.
type TransitionInfo struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	To     string            `json:"to,omitempty"`
	Fields []TransitionField `json:"fields,omitempty"`
}

// TransitionsResult wraps the transition listing.
type TransitionsResult struct {
	Key         string           `json:"key"`
	Transitions []TransitionInfo `json:"transitions"`
}

// TransitionIssueArgs parameters for running a transition.
type TransitionIssueArgs struct {
	Key        string            `json:"key,omitempty" jsonschema_description:"Issue key; defaults to the last issue used in this session"`
	Transition string            `json:"transition" jsonschema:"required" jsonschema_description:"Exact, case-sensitive transition name"`
	Assignee   string            `json:"assignee,omitempty" jsonschema_description:"Assignee to set during the transition"`
	Comment    string            `json:"comment,omitempty" jsonschema_description:"Comment added with the transition"`
	Fields     map[string]string `json:"fields,omitempty" jsonschema_description:"Transition field values keyed by field id or name"`
}

// AssignIssueArgs parameters for assigning an issue.
type AssignIssueArgs struct {
	Key      string `json:"key,omitempty" jsonschema_description:"Issue key; defaults to the last issue used in this session"`
	Assignee string `json:"assignee,omitempty" jsonschema_description:"Username or alias; defaults to the configured assignee"`
}

func (w *WorkflowTools) handleNewIssue(ctx context.Context, _ mcp.CallToolRequest, args NewIssueArgs) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Summary) == "" {
		return mcp.NewToolResultError("summary must not be empty"), nil
	}

	res, err := w.engine.New(ctx, workflow.Options{
		Title:     args.Summary,
		Message:   args.Description,
		Project:   args.Project,
		IssueType: args.IssueType,
		Component: args.Component,
		Priority:  args.Priority,
		Version:   args.Version,
		Assignee:  args.Assignee,
		Reporter:  args.Reporter,
	})
	return w.respond(res, err)
}

func (w *WorkflowTools) handleUpdateIssue(ctx context.Context, _ mcp.CallToolRequest, args UpdateIssueArgs) (*mcp.CallToolResult, error) {
	key, errRes := w.key(args.Key)
	if errRes != nil {
		return errRes, nil
	}

	res, err := w.engine.Update(ctx, key, workflow.Options{
		Title:     args.Summary,
		Message:   args.Description,
		Project:   args.Project,
		IssueType: args.IssueType,
		Component: args.Component,
		Priority:  args.Priority,
		Version:   args.Version,
		Assignee:  args.Assignee,
	})
	return w.respond(res, err)
}

func (w *WorkflowTools) handleAddComment(ctx context.Context, _ mcp.CallToolRequest, args AddCommentArgs) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Body) == "" {
		return mcp.NewToolResultError("comment body must not be empty"), nil
	}
	key, errRes := w.key(args.Key)
	if errRes != nil {
		return errRes, nil
	}

	res, err := w.engine.Comment(ctx, key, args.Body, workflow.Options{})
	return w.respond(res, err)
}

func (w *WorkflowTools) handleListTransitions(ctx context.Context, _ mcp.CallToolRequest, args ListTransitionsArgs) (*mcp.CallToolResult, error) {
	key, errRes := w.key(args.Key)
	if errRes != nil {
		return errRes, nil
	}

	transitions, err := w.engine.Transitions().List(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(workflow.Message(err)), nil
	}
	w.session.Touch(key)

	result := TransitionsResult{Key: key, Transitions: make([]TransitionInfo, 0, len(transitions))}
	for _, t := range transitions {
		info := TransitionInfo{ID: t.ID, Name: t.Name, To: t.To.Name}
		for _, f := range transition.Fields(t) {
			field := TransitionField{ID: f.ID, Name: f.Name, Required: f.Required}
			for _, v := range t.Fields[f.ID].AllowedValues {
				field.Allowed = append(field.Allowed, v.Label())
			}
			info.Fields = append(info.Fields, field)
		}
		result.Transitions = append(result.Transitions, info)
	}

	names := make([]string, 0, len(result.Transitions))
	for _, t := range result.Transitions {
		names = append(names, t.Name)
	}
	sort.Strings(names)

	fallback := fmt.Sprintf("%s can take %d transitions: %s", key, len(names), strings.Join(names, ", "))
	return mcp.NewToolResultStructured(result, fallback), nil
}

func (w *WorkflowTools) handleTransitionIssue(ctx context.Context, _ mcp.CallToolRequest, args TransitionIssueArgs) (*mcp.CallToolResult, error) {
	if args.Transition == "" {
		return mcp.NewToolResultError("transition must not be empty"), nil
	}
	key, errRes := w.key(args.Key)
	if errRes != nil {
		return errRes, nil
	}

	res, err := w.engine.Transition(ctx, key, args.Transition, workflow.Options{
		Assignee: args.Assignee,
		Comment:  args.Comment,
		Fields:   args.Fields,
	})
	return w.respond(res, err)
}

func (w *WorkflowTools) handleAssignIssue(ctx context.Context, _ mcp.CallToolRequest, args AssignIssueArgs) (*mcp.CallToolResult, error) {
	key, errRes := w.key(args.Key)
	if errRes != nil {
		return errRes, nil
	}

	res, err := w.engine.Assign(ctx, key, args.Assignee)
	return w.respond(res, err)
}

func (w *WorkflowTools) key(given string) (string, *mcp.CallToolResult) {
	key := strings.ToUpper(strings.TrimSpace(w.session.Resolve(given)))
	if key == "" {
		return "", mcp.NewToolResultError("issue key required, no issue used yet in this session")
	}
	return key, nil
}

func (w *WorkflowTools) respond(res *workflow.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		w.logger.Debug("tool call failed", slog.Any("error", err))
		msg := workflow.Message(err)
		var nf *resolve.NotFoundError
		if errors.As(err, &nf) && nf.Kind == resolve.KindTransition && len(nf.Candidates) > 0 {
			msg += " Valid transitions: " + strings.Join(nf.Candidates, ", ") + "."
		}
		return mcp.NewToolResultError(msg), nil
	}

	w.session.Touch(res.Key)
	result := IssueResult{Key: res.Key, Message: res.Message}
	if u, err := browser.IssueURL(w.siteURL, res.Key); err == nil {
		result.URL = u
	}
	return mcp.NewToolResultStructured(result, res.Message), nil
}
