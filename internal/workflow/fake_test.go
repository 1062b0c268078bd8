package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ylchen07/jflow/internal/atlassian"
	"github.com/ylchen07/jflow/internal/jira"
)

// fakeAPI is an in-memory Jira that records every call.
type fakeAPI struct {
	calls []string

	issueTypes  []jira.IssueType
	priorities  []jira.Priority
	projects    map[string]jira.Project
	components  map[string][]jira.Component
	versions    map[string][]jira.Version
	users       []jira.User
	issues      map[string]jira.Issue
	transitions []jira.Transition

	assignStatus int
	createErr    error

	created   []map[string]any
	updated   map[string]map[string]any
	comments  map[string][]string
	submitted []map[string]any
	assigned  map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		issueTypes: []jira.IssueType{{ID: "1", Name: "Bug"}, {ID: "3", Name: "Task"}},
		priorities: []jira.Priority{{ID: "2", Name: "Critical"}, {ID: "3", Name: "Major"}},
		projects:   map[string]jira.Project{"LPS": {ID: "100", Key: "LPS", Name: "Portal"}},
		components: map[string][]jira.Component{"LPS": {{ID: "7", Name: "JavaScript"}, {ID: "8", Name: "CSS"}}},
		versions:   map[string][]jira.Version{"LPS": {{ID: "9", Name: "7.0.0"}}},
		users:      []jira.User{{Name: "john.doe", DisplayName: "John Doe"}},
		issues: map[string]jira.Issue{
			"LPS-1": {ID: "10001", Key: "LPS-1"},
		},
		transitions: []jira.Transition{
			{ID: "4", Name: "Start Progress", To: jira.Status{Name: "In Progress"}},
			{ID: "5", Name: "Resolve Issue", Fields: map[string]jira.FieldSchema{
				"resolution": {
					Name:          "Resolution",
					Required:      true,
					AllowedValues: []jira.AllowedValue{{ID: "1", Name: "Fixed"}},
				},
			}},
		},
		assignStatus: http.StatusNoContent,
		updated:      map[string]map[string]any{},
		comments:     map[string][]string{},
		assigned:     map[string]string{},
	}
}

func (f *fakeAPI) record(call string) { f.calls = append(f.calls, call) }

func decode(body any) map[string]any {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func notFound() error {
	return &atlassian.Error{StatusCode: http.StatusNotFound, ErrorMessages: []string{"not found"}}
}

func (f *fakeAPI) GetIssue(_ context.Context, key string) (*jira.Issue, error) {
	f.record("GetIssue " + key)
	issue, ok := f.issues[key]
	if !ok {
		return nil, notFound()
	}
	return &issue, nil
}

func (f *fakeAPI) ListIssueTypes(context.Context) ([]jira.IssueType, error) {
	f.record("ListIssueTypes")
	return f.issueTypes, nil
}

func (f *fakeAPI) ListPriorities(context.Context) ([]jira.Priority, error) {
	f.record("ListPriorities")
	return f.priorities, nil
}

func (f *fakeAPI) GetProject(_ context.Context, key string) (*jira.Project, error) {
	f.record("GetProject " + key)
	p, ok := f.projects[key]
	if !ok {
		return nil, notFound()
	}
	return &p, nil
}

func (f *fakeAPI) ListComponents(_ context.Context, project string) ([]jira.Component, error) {
	f.record("ListComponents " + project)
	return f.components[project], nil
}

func (f *fakeAPI) ListVersions(_ context.Context, project string) ([]jira.Version, error) {
	f.record("ListVersions " + project)
	return f.versions[project], nil
}

func (f *fakeAPI) SearchUsers(_ context.Context, query string) ([]jira.User, error) {
	f.record("SearchUsers " + query)
	var out []jira.User
	for _, u := range f.users {
		if strings.HasPrefix(u.Name, query) || u.DisplayName == query {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateIssue(_ context.Context, body any) (*jira.Issue, error) {
	f.record("CreateIssue")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, decode(body))
	return &jira.Issue{ID: "10099", Key: "LPS-99"}, nil
}

func (f *fakeAPI) UpdateIssue(_ context.Context, key string, body any) error {
	f.record("UpdateIssue " + key)
	f.updated[key] = decode(body)
	return nil
}

func (f *fakeAPI) AddComment(_ context.Context, issueID, body string) (*jira.Comment, error) {
	f.record("AddComment " + issueID)
	f.comments[issueID] = append(f.comments[issueID], body)
	return &jira.Comment{ID: "1", Body: body}, nil
}

func (f *fakeAPI) AssignIssue(_ context.Context, key, username string) (int, error) {
	f.record("AssignIssue " + key)
	if f.assignStatus == http.StatusNoContent {
		f.assigned[key] = username
	}
	return f.assignStatus, nil
}

func (f *fakeAPI) ListTransitions(_ context.Context, key string) ([]jira.Transition, error) {
	f.record("ListTransitions " + key)
	return f.transitions, nil
}

func (f *fakeAPI) TransitionIssue(_ context.Context, key string, body any) error {
	f.record("TransitionIssue " + key)
	f.submitted = append(f.submitted, decode(body))
	return nil
}

type fakeLocator struct {
	key string
	err error
}

func (l fakeLocator) Current(context.Context, string) (string, error) {
	return l.key, l.err
}
