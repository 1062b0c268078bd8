package transition

import (
	"sort"

	"github.com/ylchen07/jflow/internal/jira"
	"github.com/ylchen07/jflow/internal/payload"
	"github.com/ylchen07/jflow/internal/prompt"
)

// FieldKind is the resolved shape of a transition screen field.
type FieldKind interface {
	// fromConfig renders a statically configured value.
	fromConfig(value string) *payload.Node
	// choices are the options offered interactively; none means free text.
	choices() []prompt.Choice
	// fromChoice renders the value picked interactively.
	fromChoice(value string) *payload.Node
}

// Text is a free-form field.
type Text struct{}

// SingleSelect picks one of Allowed.
type SingleSelect struct {
	Allowed []jira.AllowedValue
}

// MultiSelect picks values of Allowed; the field takes a list.
type MultiSelect struct {
	Allowed []jira.AllowedValue
}

func (Text) fromConfig(value string) *payload.Node { return payload.String(value) }
func (Text) choices() []prompt.Choice              { return nil }
func (Text) fromChoice(value string) *payload.Node { return payload.String(value) }

func (k SingleSelect) fromConfig(value string) *payload.Node { return payload.Named(value) }
func (k SingleSelect) choices() []prompt.Choice              { return choicesOf(k.Allowed) }
func (k SingleSelect) fromChoice(id string) *payload.Node    { return payload.WithID(id) }

func (k MultiSelect) fromConfig(value string) *payload.Node {
	return payload.Array(payload.Named(value))
}
func (k MultiSelect) choices() []prompt.Choice { return choicesOf(k.Allowed) }
func (k MultiSelect) fromChoice(id string) *payload.Node {
	return payload.Array(payload.WithID(id))
}

func choicesOf(allowed []jira.AllowedValue) []prompt.Choice {
	out := make([]prompt.Choice, len(allowed))
	for i, v := range allowed {
		out[i] = prompt.Choice{Label: v.Label(), Value: v.ID}
	}
	return out
}

// Field is one entry of a transition's schema.
type Field struct {
	ID       string
	Name     string
	Required bool
	Kind     FieldKind
}

// KindOf classifies a server-declared schema. Array-typed fields are multi-selects,
// other fields with allowed values are single selects, the rest are text.
func KindOf(schema jira.FieldSchema) FieldKind {
	switch {
	case schema.Schema.Type == "array":
		return MultiSelect{Allowed: schema.AllowedValues}
	case len(schema.AllowedValues) > 0:
		return SingleSelect{Allowed: schema.AllowedValues}
	default:
		return Text{}
	}
}

// Fields lists t's schema ordered by field id.
func Fields(t jira.Transition) []Field {
	ids := make([]string, 0, len(t.Fields))
	for id := range t.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fields := make([]Field, 0, len(ids))
	for _, id := range ids {
		schema := t.Fields[id]
		fields = append(fields, Field{
			ID:       id,
			Name:     schema.Name,
			Required: schema.Required,
			Kind:     KindOf(schema),
		})
	}
	return fields
}
