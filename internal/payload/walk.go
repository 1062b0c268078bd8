package payload

// Prune removes null and empty-string leaves, then any object or array left empty by
// that removal. It mutates n and returns it; applying it twice changes nothing. Containers
// that were already empty are dropped too, since an update must not carry them.
func Prune(n *Node) *Node {
	prune(n)
	return n
}

// prune reports whether n should be removed from its parent.
func prune(n *Node) bool {
	switch n.Kind() {
	case KindNull:
		return true
	case KindScalar:
		s, ok := n.Value().(string)
		return ok && s == ""
	case KindObject:
		for _, k := range n.Keys() {
			if prune(n.fields[k]) {
				n.Delete(k)
			}
		}
		return len(n.keys) == 0
	case KindArray:
		kept := n.items[:0]
		for _, item := range n.Items() {
			if !prune(item) {
				kept = append(kept, item)
			}
		}
		n.items = kept
		return len(n.items) == 0
	}
	return false
}

// Expand rewrites every string leaf through fn, in place.
func Expand(n *Node, fn func(string) string) *Node {
	switch n.Kind() {
	case KindScalar:
		if s, ok := n.Value().(string); ok {
			n.value = fn(s)
		}
	case KindObject:
		for _, k := range n.keys {
			Expand(n.fields[k], fn)
		}
	case KindArray:
		for _, item := range n.Items() {
			Expand(item, fn)
		}
	}
	return n
}
