// Package template substitutes {{ reference }} tokens in user-supplied strings such as
// comment bodies, signatures and issue descriptions.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)*)\s*\}\}`)

// Context resolves a dotted reference to its text.
type Context interface {
	Lookup(ref string) (string, bool)
}

// Values is a nested map context. Dotted references descend into nested maps.
type Values map[string]any

// Lookup implements Context.
func (v Values) Lookup(ref string) (string, bool) {
	var cur any = map[string]any(v)
	for _, part := range strings.Split(ref, ".") {
		switch m := cur.(type) {
		case map[string]any:
			next, ok := m[part]
			if !ok {
				return "", false
			}
			cur = next
		case Values:
			next, ok := m[part]
			if !ok {
				return "", false
			}
			cur = next
		case map[string]string:
			next, ok := m[part]
			if !ok {
				return "", false
			}
			cur = next
		default:
			return "", false
		}
	}

	switch t := cur.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	case map[string]any, map[string]string, Values:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

// Chain consults each context in order; the first hit wins.
type Chain []Context

// Lookup implements Context.
func (c Chain) Lookup(ref string) (string, bool) {
	for _, ctx := range c {
		if ctx == nil {
			continue
		}
		if v, ok := ctx.Lookup(ref); ok {
			return v, true
		}
	}
	return "", false
}

// Expand replaces every {{ ref }} token in s. Unknown references become the empty
// string and malformed or unterminated tokens are left as written; Expand never fails.
func Expand(s string, ctx Context) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		if ctx == nil {
			return ""
		}
		ref := tokenPattern.FindStringSubmatch(token)[1]
		v, _ := ctx.Lookup(ref)
		return v
	})
}

// Func returns Expand bound to ctx, handy for tree walks.
func Func(ctx Context) func(string) string {
	return func(s string) string { return Expand(s, ctx) }
}

// References lists the references used in s, in order of appearance.
func References(s string) []string {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}
