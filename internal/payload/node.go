// Package payload models request bodies as a tagged value tree so generic walks
// (pruning, template expansion) work without inspecting dynamic shapes.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return "null"
	}
}

// Node is one value in a payload tree. Object keys keep insertion order so encoded
// bodies are stable.
type Node struct {
	kind   Kind
	keys   []string
	fields map[string]*Node
	items  []*Node
	value  any
}

// Object returns an empty object node.
func Object() *Node {
	return &Node{kind: KindObject, fields: make(map[string]*Node)}
}

// Array returns an array node holding items.
func Array(items ...*Node) *Node {
	return &Node{kind: KindArray, items: items}
}

// String returns a string scalar.
func String(s string) *Node {
	return Scalar(s)
}

// Scalar wraps a JSON scalar (string, bool or number).
func Scalar(v any) *Node {
	if v == nil {
		return Null()
	}
	return &Node{kind: KindScalar, value: v}
}

// Null returns a null node.
func Null() *Node {
	return &Node{kind: KindNull}
}

// Named returns {"name": name}, the reference shape Jira accepts for users and options.
func Named(name string) *Node {
	return Object().Set("name", String(name))
}

// WithID returns {"id": id}.
func WithID(id string) *Node {
	return Object().Set("id", String(id))
}

// Kind reports the variant of n. A nil node is null.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// Value returns the scalar value, or nil for non-scalars.
func (n *Node) Value() any {
	if n.Kind() != KindScalar {
		return nil
	}
	return n.value
}

// Keys returns object keys in insertion order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Items returns the elements of an array node.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return n.items
}

// Len reports the number of object keys or array items.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	default:
		return 0
	}
}

// Set stores child under key and returns n for chaining. Set on a non-object panics.
func (n *Node) Set(key string, child *Node) *Node {
	if n.Kind() != KindObject {
		panic(fmt.Sprintf("payload: Set on %s node", n.Kind()))
	}
	if child == nil {
		child = Null()
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
	return n
}

// SetPath stores child at a dotted path, creating intermediate objects.
func (n *Node) SetPath(path string, child *Node) *Node {
	parts := strings.Split(path, ".")
	cur := n
	for _, part := range parts[:len(parts)-1] {
		next := cur.Get(part)
		if next.Kind() != KindObject {
			next = Object()
			cur.Set(part, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], child)
	return n
}

// Get returns the child stored under key, or nil.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindObject {
		return nil
	}
	return n.fields[key]
}

// Lookup walks a dotted path; array segments are addressed by index.
func (n *Node) Lookup(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, ".") {
		switch cur.Kind() {
		case KindObject:
			cur = cur.fields[part]
		case KindArray:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(cur.items) {
				return nil
			}
			cur = cur.items[idx]
		default:
			return nil
		}
	}
	return cur
}

// Delete removes key from an object node.
func (n *Node) Delete(key string) {
	if n.Kind() != KindObject {
		return
	}
	if _, ok := n.fields[key]; !ok {
		return
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// MarshalJSON encodes the tree preserving object key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			if err := n.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindScalar:
		data, err := json.Marshal(n.value)
		if err != nil {
			return fmt.Errorf("payload: encode scalar: %w", err)
		}
		buf.Write(data)
	default:
		buf.WriteString("null")
	}
	return nil
}
