package transition

import (
	"context"
	"fmt"
	"strings"

	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/prompt"
)

// Action is what the user picked from the menu.
type Action int

const (
	ActionCancel Action = iota
	ActionAssign
	ActionBrowse
	ActionTransition
)

// Selection is the outcome of Menu. Assignee is set for ActionAssign, Transition for
// ActionTransition.
type Selection struct {
	Action     Action
	Assignee   string
	Transition jira.Transition
}

// MenuOptions names the users offered as assign shortcuts. An empty name hides
// its shortcut.
type MenuOptions struct {
	Me              string
	DefaultAssignee string
}

const (
	choiceCancel        = "cancel"
	choiceAssignMe      = "assign:me"
	choiceAssignDefault = "assign:default"
	choiceBrowse        = "browse"
	choiceTransition    = "transition:"
)

// Menu lists the transitions for key and asks the user what to do with the issue.
func (r *Resolver) Menu(ctx context.Context, key string, opts MenuOptions) (Selection, error) {
	transitions, err := r.List(ctx, key)
	if err != nil {
		return Selection{}, err
	}

	choices := []prompt.Choice{{Label: "Cancel", Value: choiceCancel}}
	if opts.Me != "" {
		choices = append(choices, prompt.Choice{Label: "Assign to me", Value: choiceAssignMe})
	}
	if opts.DefaultAssignee != "" && opts.DefaultAssignee != opts.Me {
		choices = append(choices, prompt.Choice{
			Label: "Assign to " + opts.DefaultAssignee,
			Value: choiceAssignDefault,
		})
	}
	choices = append(choices, prompt.Choice{Label: "Open in browser", Value: choiceBrowse})
	for _, t := range transitions {
		choices = append(choices, prompt.Choice{Label: t.Name, Value: choiceTransition + t.ID})
	}

	chosen, err := r.prompter.Choose(ctx, fmt.Sprintf("What do you want to do with %s?", key), choices)
	if err != nil {
		return Selection{}, err
	}

	switch {
	case chosen == choiceCancel || chosen == "":
		return Selection{Action: ActionCancel}, nil
	case chosen == choiceAssignMe && opts.Me != "":
		return Selection{Action: ActionAssign, Assignee: opts.Me}, nil
	case chosen == choiceAssignDefault && opts.DefaultAssignee != "":
		return Selection{Action: ActionAssign, Assignee: opts.DefaultAssignee}, nil
	case chosen == choiceBrowse:
		return Selection{Action: ActionBrowse}, nil
	case strings.HasPrefix(chosen, choiceTransition):
		id := strings.TrimPrefix(chosen, choiceTransition)
		for _, t := range transitions {
			if t.ID == id {
				return Selection{Action: ActionTransition, Transition: t}, nil
			}
		}
	}
	return Selection{}, fmt.Errorf("transition: unknown menu choice %q", chosen)
}
