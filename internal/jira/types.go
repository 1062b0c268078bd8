package jira

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// EntityName returns the project key, the symbolic name users type.
func (p Project) EntityName() string { return p.Key }

// IssueType represents an issue type such as "Bug".
type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// EntityName implements resolve.Named.
func (t IssueType) EntityName() string { return t.Name }

// Priority represents an issue priority.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityName implements resolve.Named.
func (p Priority) EntityName() string { return p.Name }

// Component represents a project component.
type Component struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityName implements resolve.Named.
func (c Component) EntityName() string { return c.Name }

// Version represents a project version.
type Version struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Released bool   `json:"released"`
	Archived bool   `json:"archived"`
}

// EntityName implements resolve.Named.
func (v Version) EntityName() string { return v.Name }

// User represents a Jira user. Name is the username used in payloads.
type User struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// EntityName implements resolve.Named.
func (u User) EntityName() string { return u.Name }

// Issue represents a Jira issue.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields reflect the subset of issue fields we surface.
type IssueFields struct {
	Summary     string      `json:"summary"`
	Description string      `json:"description"`
	Status      *Status     `json:"status"`
	Project     *Project    `json:"project"`
	IssueType   *IssueType  `json:"issuetype"`
	Assignee    *User       `json:"assignee"`
	Reporter    *User       `json:"reporter"`
	Priority    *Priority   `json:"priority"`
	Components  []Component `json:"components"`
	Versions    []Version   `json:"versions"`
}

// Status is the current workflow status of an issue.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Comment is a created issue comment.
type Comment struct {
	ID     string `json:"id"`
	Body   string `json:"body"`
	Author *User  `json:"author"`
}

// Transition is one outgoing edge from the issue's current workflow status.
type Transition struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	To     Status                 `json:"to"`
	Fields map[string]FieldSchema `json:"fields"`
}

// EntityName implements resolve.Named.
func (t Transition) EntityName() string { return t.Name }

// FieldSchema is the server-declared description of a transition screen field.
type FieldSchema struct {
	Name          string         `json:"name"`
	Required      bool           `json:"required"`
	Schema        FieldType      `json:"schema"`
	AllowedValues []AllowedValue `json:"allowedValues"`
}

// FieldType carries the field's JSON type; "array" fields take lists.
type FieldType struct {
	Type   string `json:"type"`
	Items  string `json:"items,omitempty"`
	System string `json:"system,omitempty"`
	Custom string `json:"custom,omitempty"`
}

// AllowedValue is one permitted choice for a field. Custom field options use Value
// instead of Name.
type AllowedValue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Label returns the human readable text of the choice.
func (v AllowedValue) Label() string {
	if v.Name != "" {
		return v.Name
	}
	if v.Value != "" {
		return v.Value
	}
	return v.ID
}
