// Package transition drives the workflow-transition protocol: it matches a requested
// transition against the issue's current options and satisfies the transition's
// server-declared field schema from configuration first and interactive prompts second.
package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/payload"
	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/resolve"
	"github.com/ylchen07/jflow/pkg/logging"
)

// API is the remote surface transitions need.
type API interface {
	ListTransitions(ctx context.Context, key string) ([]jira.Transition, error)
	TransitionIssue(ctx context.Context, key string, body any) error
}

// FieldConfig provides statically configured field values.
type FieldConfig interface {
	TransitionField(transition, fieldID, fieldName string) (string, bool)
}

// Request carries the caller's additions to a transition.
type Request struct {
	Name     string
	Assignee string
	Comment  string
	// Fields override configured values, keyed by field id or name.
	Fields map[string]string
}

// Resolver builds and submits transition payloads.
type Resolver struct {
	api      API
	config   FieldConfig
	prompter prompt.Prompter
	logger   *slog.Logger
}

// NewResolver wires a Resolver. A nil prompter disables interactive resolution.
func NewResolver(api API, cfg FieldConfig, p prompt.Prompter, logger *slog.Logger) *Resolver {
	if p == nil {
		p = prompt.NonInteractive{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{api: api, config: cfg, prompter: p, logger: logger}
}

// List returns the transitions valid for the issue's current status.
func (r *Resolver) List(ctx context.Context, key string) ([]jira.Transition, error) {
	transitions, err := r.api.ListTransitions(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("transition: list %s: %w", key, err)
	}
	return transitions, nil
}

// Match lists transitions for key and returns the one named exactly req.Name.
func (r *Resolver) Match(ctx context.Context, key, name string) (jira.Transition, error) {
	return resolve.ByName(ctx, resolve.KindTransition, name, func(ctx context.Context) ([]jira.Transition, error) {
		return r.List(ctx, key)
	})
}

// Apply runs the whole pipeline: list, match, resolve fields, merge and submit.
func (r *Resolver) Apply(ctx context.Context, key string, req Request) (jira.Transition, error) {
	t, err := r.Match(ctx, key, req.Name)
	if err != nil {
		return jira.Transition{}, err
	}
	if err := r.Submit(ctx, key, t, req); err != nil {
		return jira.Transition{}, err
	}
	return t, nil
}

// Submit resolves t's fields, merges req and posts the transition.
func (r *Resolver) Submit(ctx context.Context, key string, t jira.Transition, req Request) error {
	body, err := r.Build(ctx, t, req)
	if err != nil {
		return err
	}

	r.logger.Debug("submitting transition",
		slog.String("issue", key),
		slog.String("transition", t.Name),
		slog.String("id", t.ID))

	if err := r.api.TransitionIssue(ctx, key, body); err != nil {
		return fmt.Errorf("transition: %s %q: %w", key, t.Name, err)
	}
	return nil
}

// Build produces {transition: {id}, fields, update} for t.
func (r *Resolver) Build(ctx context.Context, t jira.Transition, req Request) (*payload.Node, error) {
	fields, err := r.ResolveFields(ctx, t, req.Fields)
	if err != nil {
		return nil, err
	}

	if req.Assignee != "" {
		fields.SetPath("assignee.name", payload.String(req.Assignee))
	}

	body := payload.Object().Set("transition", payload.WithID(t.ID))
	if fields.Len() > 0 {
		body.Set("fields", fields)
	}
	if req.Comment != "" {
		comment := payload.Object().SetPath("add.body", payload.String(req.Comment))
		body.Set("update", payload.Object().Set("comment", payload.Array(comment)))
	}
	return body, nil
}

// ResolveFields turns t's field schema into values. For each field a configured value
// wins unless it is the prompt marker; required or prompt-marked fields are then asked
// for; everything else stays unset.
func (r *Resolver) ResolveFields(ctx context.Context, t jira.Transition, overrides map[string]string) (*payload.Node, error) {
	out := payload.Object()

	for _, field := range Fields(t) {
		value, configured := r.configured(t.Name, field, overrides)
		if configured && value != config.PromptValue {
			r.logger.Debug("transition field from configuration",
				slog.String("transition", t.Name),
				slog.String("field", field.ID))
			out.Set(field.ID, field.Kind.fromConfig(value))
			continue
		}

		if !field.Required && !configured {
			continue
		}

		node, err := r.ask(ctx, t, field)
		switch {
		case errors.Is(err, prompt.ErrUnavailable):
			if field.Required {
				return nil, &ValidationError{Transition: t.Name, FieldID: field.ID, Field: field.Name}
			}
			continue
		case err != nil:
			return nil, err
		}

		if node == nil {
			if field.Required {
				return nil, &ValidationError{Transition: t.Name, FieldID: field.ID, Field: field.Name}
			}
			continue
		}
		out.Set(field.ID, node)
	}

	return out, nil
}

func (r *Resolver) configured(transition string, field Field, overrides map[string]string) (string, bool) {
	for _, key := range []string{field.ID, field.Name} {
		if key == "" {
			continue
		}
		for k, v := range overrides {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	if r.config == nil {
		return "", false
	}
	return r.config.TransitionField(transition, field.ID, field.Name)
}

// ask shows exactly one prompt for field. A nil node means the user gave no value.
func (r *Resolver) ask(ctx context.Context, t jira.Transition, field Field) (*payload.Node, error) {
	title := field.Name
	if title == "" {
		title = field.ID
	}
	title = fmt.Sprintf("%s: %s", t.Name, title)

	choices := field.Kind.choices()
	if len(choices) == 0 {
		text, err := r.prompter.Input(ctx, title)
		if err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(text); text == "" {
			return nil, nil
		}
		// Typed values carry no id, so they are sent by name.
		return field.Kind.fromConfig(text), nil
	}

	chosen, err := r.prompter.Choose(ctx, title, choices)
	if err != nil {
		return nil, err
	}
	if chosen == "" {
		return nil, nil
	}
	return field.Kind.fromChoice(chosen), nil
}
