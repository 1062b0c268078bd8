package transition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/jflow/internal/prompt"
)

func TestMenuChoices(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("cancel")
	r := NewResolver(api, nil, p, nil)

	sel, err := r.Menu(context.Background(), "LPS-1", MenuOptions{Me: "jdoe", DefaultAssignee: "lead"})
	require.NoError(t, err)
	assert.Equal(t, ActionCancel, sel.Action)

	labels := make([]string, 0)
	for _, c := range p.Calls()[0].Choices {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{
		"Cancel", "Assign to me", "Assign to lead", "Open in browser",
		"Start Progress", "Resolve Issue", "Close Issue",
	}, labels)
}

func TestMenuOmitsDefaultAssigneeWhenSameAsMe(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("browse")
	r := NewResolver(api, nil, p, nil)

	sel, err := r.Menu(context.Background(), "LPS-1", MenuOptions{Me: "jdoe", DefaultAssignee: "jdoe"})
	require.NoError(t, err)
	assert.Equal(t, ActionBrowse, sel.Action)

	for _, c := range p.Calls()[0].Choices {
		assert.NotEqual(t, "assign:default", c.Value)
	}
}

func TestMenuHidesAssignToMeWithoutUser(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("assign:me")
	r := NewResolver(api, nil, p, nil)

	_, err := r.Menu(context.Background(), "LPS-1", MenuOptions{DefaultAssignee: "alice"})
	require.Error(t, err)

	labels := make([]string, 0)
	for _, c := range p.Calls()[0].Choices {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{
		"Cancel", "Assign to alice", "Open in browser",
		"Start Progress", "Resolve Issue", "Close Issue",
	}, labels)
}

func TestMenuSelections(t *testing.T) {
	cases := []struct {
		answer   string
		action   Action
		assignee string
		id       string
	}{
		{answer: "assign:me", action: ActionAssign, assignee: "jdoe"},
		{answer: "assign:default", action: ActionAssign, assignee: "lead"},
		{answer: "transition:5", action: ActionTransition, id: "5"},
	}

	for _, tc := range cases {
		t.Run(tc.answer, func(t *testing.T) {
			api := &fakeAPI{transitions: workflowTransitions()}
			r := NewResolver(api, nil, prompt.NewScripted(tc.answer), nil)

			sel, err := r.Menu(context.Background(), "LPS-1", MenuOptions{Me: "jdoe", DefaultAssignee: "lead"})
			require.NoError(t, err)
			assert.Equal(t, tc.action, sel.Action)
			assert.Equal(t, tc.assignee, sel.Assignee)
			assert.Equal(t, tc.id, sel.Transition.ID)
			assert.Empty(t, api.submitted)
		})
	}
}

func TestMenuUnavailableWithoutTerminal(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	r := NewResolver(api, nil, nil, nil)

	_, err := r.Menu(context.Background(), "LPS-1", MenuOptions{Me: "jdoe"})
	assert.ErrorIs(t, err, prompt.ErrUnavailable)
}
