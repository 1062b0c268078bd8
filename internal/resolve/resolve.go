// Package resolve turns symbolic names into remote entities by exact match against a
// listing fetched on demand.
package resolve

import (
	"context"
	"fmt"
)

// Named is implemented by every entity that can be looked up by name.
type Named interface {
	EntityName() string
}

// Kind identifies the entity being resolved and selects the corrective hint.
type Kind string

const (
	KindIssueType  Kind = "issue type"
	KindProject    Kind = "project"
	KindComponent  Kind = "component"
	KindPriority   Kind = "priority"
	KindVersion    Kind = "version"
	KindUser       Kind = "user"
	KindTransition Kind = "transition"
)

var hints = map[Kind]string{
	KindIssueType: `No issue type found, try --type "Bug".`,
	KindProject:   `No project found, try --project "LPS".`,
	KindComponent: `No component found, try --component "JavaScript".`,
	KindPriority:  `No priority found, try --priority "Major".`,
	KindVersion:   `No version found, try --version "7.0.0".`,
	KindUser:      `No user found, try --assignee "username".`,
}

// NotFoundError reports a name absent from the remote listing, or a required name that
// was never supplied.
type NotFoundError struct {
	Kind Kind
	Name string
	// Candidates are the names that were listed, when a listing happened.
	Candidates []string
}

// Message is the single corrective line shown to the user.
func (e *NotFoundError) Message() string {
	if e.Kind == KindTransition {
		return fmt.Sprintf("%s is not a valid transition, try another action.", e.Name)
	}
	if hint, ok := hints[e.Kind]; ok {
		return hint
	}
	return fmt.Sprintf("No %s found.", e.Kind)
}

func (e *NotFoundError) Error() string {
	return e.Message()
}

// ListFunc fetches the candidate collection.
type ListFunc[T Named] func(context.Context) ([]T, error)

// ByName lists the candidates and returns the first whose name equals name exactly.
// An empty name fails without listing.
func ByName[T Named](ctx context.Context, kind Kind, name string, list ListFunc[T]) (T, error) {
	var zero T
	if name == "" {
		return zero, &NotFoundError{Kind: kind}
	}

	items, err := list(ctx)
	if err != nil {
		return zero, fmt.Errorf("resolve %s %q: %w", kind, name, err)
	}

	if item, ok := Match(items, name); ok {
		return item, nil
	}
	return zero, &NotFoundError{Kind: kind, Name: name, Candidates: Names(items)}
}

// Optional resolves name like ByName, except that an empty name reports ok=false without
// any remote call.
func Optional[T Named](ctx context.Context, kind Kind, name string, list ListFunc[T]) (T, bool, error) {
	var zero T
	if name == "" {
		return zero, false, nil
	}
	item, err := ByName(ctx, kind, name, list)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// Match returns the first item whose name equals name. Comparison is case-sensitive.
func Match[T Named](items []T, name string) (T, bool) {
	for _, item := range items {
		if item.EntityName() == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Names returns the entity names in listing order.
func Names[T Named](items []T) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.EntityName()
	}
	return names
}
