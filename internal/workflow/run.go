package workflow

import (
	"context"
	"errors"
	"log/slog"
)

var errNotCreated = errors.New("workflow: skipped, the issue was not created")

// Action names a step of a Plan.
type Action string

const (
	ActionNew        Action = "new"
	ActionUpdate     Action = "update"
	ActionComment    Action = "comment"
	ActionTransition Action = "transition"
	ActionAssign     Action = "assign"
	ActionBrowse     Action = "browser"
)

// Result describes one completed action.
type Result struct {
	Action  Action
	Key     string
	Message string
	URL     string
}

// ActionError ties a failure to the action that produced it.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	return string(e.Action) + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Plan is the set of actions requested in one invocation.
type Plan struct {
	// Key is the target issue; empty means the current git issue, a bare number is
	// prefixed with the project.
	Key     string
	Options Options

	New     bool
	Update  bool
	Comment string
	// Transition names the transition to run; TransitionMenu asks instead.
	Transition     string
	TransitionMenu bool
	// Assign is the user to assign, AssignSet reports whether --assign was given.
	Assign    string
	AssignSet bool
	Browse    bool
}

// Empty reports whether the plan requests nothing.
func (p Plan) Empty() bool {
	return !p.New && !p.Update && p.Comment == "" && p.Transition == "" &&
		!p.TransitionMenu && !p.AssignSet && !p.Browse
}

// Run executes the plan in a fixed order: new, update, comment, transition, assign,
// browser. An action stops at its first failure; later actions still run. A created
// issue becomes the target of the actions after it. Failures are joined.
func (e *Engine) Run(ctx context.Context, plan Plan) ([]Result, error) {
	var (
		results []Result
		errs    []error
		key     string
		keyErr  error
		keyDone bool
	)

	target := func() (string, error) {
		if !keyDone {
			project := plan.Options.Project
			key, keyErr = e.issueKey(ctx, plan.Key, project)
			keyDone = true
		}
		return key, keyErr
	}

	record := func(action Action, res *Result, err error) {
		if err != nil {
			e.logger.Debug("action failed", slog.String("action", string(action)), slog.Any("error", err))
			errs = append(errs, &ActionError{Action: action, Err: err})
			return
		}
		if res != nil {
			results = append(results, *res)
		}
	}

	keyed := func(action Action, fn func(key string) (*Result, error)) {
		if err := ctx.Err(); err != nil {
			record(action, nil, err)
			return
		}
		k, err := target()
		if err != nil {
			record(action, nil, err)
			return
		}
		res, err := fn(k)
		record(action, res, err)
	}

	if plan.New {
		res, err := e.New(ctx, plan.Options)
		record(ActionNew, res, err)
		keyDone = true
		if err == nil {
			key = res.Key
		} else {
			keyErr = errNotCreated
		}
	}
	if plan.Update {
		keyed(ActionUpdate, func(k string) (*Result, error) { return e.Update(ctx, k, plan.Options) })
	}
	if plan.Comment != "" {
		keyed(ActionComment, func(k string) (*Result, error) { return e.Comment(ctx, k, plan.Comment, plan.Options) })
	}
	switch {
	case plan.Transition != "":
		keyed(ActionTransition, func(k string) (*Result, error) {
			return e.Transition(ctx, k, plan.Transition, plan.Options)
		})
	case plan.TransitionMenu:
		keyed(ActionTransition, func(k string) (*Result, error) { return e.Menu(ctx, k, plan.Options) })
	}
	if plan.AssignSet {
		keyed(ActionAssign, func(k string) (*Result, error) { return e.Assign(ctx, k, plan.Assign) })
	}
	if plan.Browse {
		keyed(ActionBrowse, func(k string) (*Result, error) { return e.Browse(ctx, k) })
	}

	return results, errors.Join(errs...)
}
