package transition

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/resolve"
)

type fakeAPI struct {
	transitions []jira.Transition
	listCalls   int
	submitted   []map[string]any
	submitErr   error
}

func (f *fakeAPI) ListTransitions(context.Context, string) ([]jira.Transition, error) {
	f.listCalls++
	return f.transitions, nil
}

func (f *fakeAPI) TransitionIssue(_ context.Context, _ string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	f.submitted = append(f.submitted, decoded)
	return f.submitErr
}

type staticConfig map[string]map[string]string

func (c staticConfig) TransitionField(transition, fieldID, fieldName string) (string, bool) {
	fields := c[transition]
	if v, ok := fields[fieldID]; ok {
		return v, true
	}
	v, ok := fields[fieldName]
	return v, ok
}

var resolutions = []jira.AllowedValue{{ID: "1", Name: "Fixed"}, {ID: "3", Name: "Duplicate"}}

func workflowTransitions() []jira.Transition {
	return []jira.Transition{
		{ID: "4", Name: "Start Progress"},
		{
			ID:   "5",
			Name: "Resolve Issue",
			Fields: map[string]jira.FieldSchema{
				"resolution": {
					Name:          "Resolution",
					Required:      true,
					Schema:        jira.FieldType{Type: "resolution"},
					AllowedValues: resolutions,
				},
				"fixVersions": {
					Name:   "Fix Version/s",
					Schema: jira.FieldType{Type: "array", Items: "version"},
				},
			},
		},
		{
			ID:   "6",
			Name: "Close Issue",
			Fields: map[string]jira.FieldSchema{
				"customfield_10": {
					Name:          "Root cause",
					Required:      true,
					Schema:        jira.FieldType{Type: "array"},
					AllowedValues: []jira.AllowedValue{{ID: "100", Value: "Code"}, {ID: "101", Value: "Config"}},
				},
			},
		},
	}
}

func TestKindOf(t *testing.T) {
	assert.IsType(t, Text{}, KindOf(jira.FieldSchema{Schema: jira.FieldType{Type: "string"}}))
	assert.IsType(t, SingleSelect{}, KindOf(jira.FieldSchema{AllowedValues: resolutions}))
	assert.IsType(t, MultiSelect{}, KindOf(jira.FieldSchema{Schema: jira.FieldType{Type: "array"}, AllowedValues: resolutions}))
	assert.IsType(t, MultiSelect{}, KindOf(jira.FieldSchema{Schema: jira.FieldType{Type: "array"}}))
}

func TestApplyStartProgressWithAssignee(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	r := NewResolver(api, nil, prompt.NonInteractive{}, nil)

	got, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Start Progress", Assignee: "jdoe"})
	require.NoError(t, err)
	assert.Equal(t, "4", got.ID)

	require.Len(t, api.submitted, 1)
	body := api.submitted[0]
	assert.Equal(t, "4", body["transition"].(map[string]any)["id"])
	assert.Equal(t, "jdoe", body["fields"].(map[string]any)["assignee"].(map[string]any)["name"])
}

func TestApplyIsCaseSensitive(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	r := NewResolver(api, nil, prompt.NonInteractive{}, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "start progress"})

	var nf *resolve.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "start progress is not a valid transition, try another action.", nf.Message())
	assert.Empty(t, api.submitted)
}

func TestRequiredFieldPromptsExactlyOnce(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("3")
	r := NewResolver(api, nil, p, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Resolve Issue"})
	require.NoError(t, err)

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Resolve Issue: Resolution", calls[0].Title)
	assert.Equal(t, []prompt.Choice{{Label: "Fixed", Value: "1"}, {Label: "Duplicate", Value: "3"}}, calls[0].Choices)

	fields := api.submitted[0]["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "3"}, fields["resolution"])
	assert.NotContains(t, fields, "fixVersions")
}

func TestRequiredArrayFieldIsWrapped(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("101")
	r := NewResolver(api, nil, p, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Close Issue"})
	require.NoError(t, err)

	require.Len(t, p.Calls(), 1)
	assert.Equal(t, "Config", p.Calls()[0].Choices[1].Label)
	fields := api.submitted[0]["fields"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"id": "101"}}, fields["customfield_10"])
}

func TestConfiguredValueWinsOverPrompt(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted()
	cfg := staticConfig{"Resolve Issue": {"Resolution": "Fixed", "fixVersions": "7.0.0"}}
	r := NewResolver(api, cfg, p, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Resolve Issue", Comment: "done"})
	require.NoError(t, err)

	assert.Empty(t, p.Calls())
	body := api.submitted[0]
	fields := body["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Fixed"}, fields["resolution"])
	assert.Equal(t, []any{map[string]any{"name": "7.0.0"}}, fields["fixVersions"])

	update := body["update"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"add": map[string]any{"body": "done"}}}, update["comment"])
}

func TestPromptMarkerForcesPrompt(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	p := prompt.NewScripted("7.1.0")
	cfg := staticConfig{"Resolve Issue": {"resolution": "Fixed", "Fix Version/s": "prompt"}}
	r := NewResolver(api, cfg, p, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Resolve Issue"})
	require.NoError(t, err)

	require.Len(t, p.Calls(), 1)
	assert.Equal(t, "Resolve Issue: Fix Version/s", p.Calls()[0].Title)
	fields := api.submitted[0]["fields"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"name": "7.1.0"}}, fields["fixVersions"])
	assert.Equal(t, map[string]any{"name": "Fixed"}, fields["resolution"])
}

func TestRequestFieldsOverrideConfig(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	cfg := staticConfig{"Resolve Issue": {"resolution": "Fixed"}}
	r := NewResolver(api, cfg, nil, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{
		Name:   "Resolve Issue",
		Fields: map[string]string{"RESOLUTION": "Duplicate"},
	})
	require.NoError(t, err)

	fields := api.submitted[0]["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Duplicate"}, fields["resolution"])
}

func TestRequiredFieldWithoutPromptIsValidationError(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	r := NewResolver(api, nil, prompt.NonInteractive{}, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Resolve Issue"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "resolution", verr.FieldID)
	assert.Contains(t, verr.Message(), `"Resolution"`)
	assert.Empty(t, api.submitted)
}

func TestAbortedPromptStopsTransition(t *testing.T) {
	api := &fakeAPI{transitions: workflowTransitions()}
	r := NewResolver(api, nil, abortingPrompter{}, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Resolve Issue"})
	assert.ErrorIs(t, err, prompt.ErrAborted)
	assert.Empty(t, api.submitted)
}

func TestSubmitErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	api := &fakeAPI{transitions: workflowTransitions(), submitErr: boom}
	r := NewResolver(api, nil, nil, nil)

	_, err := r.Apply(context.Background(), "LPS-1", Request{Name: "Start Progress"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, api.listCalls)
}

type abortingPrompter struct{}

func (abortingPrompter) Choose(context.Context, string, []prompt.Choice) (string, error) {
	return "", prompt.ErrAborted
}

func (abortingPrompter) Input(context.Context, string) (string, error) {
	return "", prompt.ErrAborted
}
