package statediagram

import (
	"iter"
	"strings"
)

// Namespace maps scope-qualified keys to states. It is the single source of
// truth for state identity during a conversion: every state reachable from the
// result is stored exactly once, under exactly one key.
//
// Iteration follows insertion order. Re-keying a state removes the old key and
// appends the new one, so a promoted state moves to the end of the order.
//
// The namespace is not thread-safe; a conversion owns its namespace exclusively.
type Namespace struct {
	orderedKeys []string          // Keys in insertion order
	data        map[string]*entry // Entries indexed by key
}

type entry struct {
	key   string
	scope Path
	state *State
}

// Match is the result of a successful lookup.
type Match struct {
	State *State
	Key   string
	// Scope is the scope the state is currently registered in.
	Scope Path
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		data: make(map[string]*entry),
	}
}

// Add registers state under key in scope. If the key already exists its value
// is replaced without changing its position in the insertion order.
func (n *Namespace) Add(key string, scope Path, state *State) {
	if prev, ok := n.data[key]; ok {
		prev.scope = scope
		prev.state = state
		state.ScopedID = key

		return
	}

	n.orderedKeys = append(n.orderedKeys, key)
	n.data[key] = &entry{key: key, scope: scope, state: state}
	state.ScopedID = key
}

// Remove deletes key. Removing a missing key is a no-op.
// This is O(n) in the number of keys.
func (n *Namespace) Remove(key string) {
	if _, ok := n.data[key]; !ok {
		return
	}

	for i, k := range n.orderedKeys {
		if k == key {
			n.orderedKeys = append(n.orderedKeys[:i], n.orderedKeys[i+1:]...)

			break
		}
	}

	delete(n.data, key)
}

// Get returns the state stored under key.
func (n *Namespace) Get(key string) (*State, bool) {
	e, ok := n.data[key]
	if !ok {
		return nil, false
	}

	return e.state, true
}

// Lookup returns the state stored under key together with its scope.
func (n *Namespace) Lookup(key string) (Match, bool) {
	e, ok := n.data[key]
	if !ok {
		return Match{}, false
	}

	return Match{State: e.state, Key: e.key, Scope: e.scope}, true
}

// Contains reports whether key is registered.
func (n *Namespace) Contains(key string) bool {
	_, ok := n.data[key]

	return ok
}

// Size returns the number of registered keys.
func (n *Namespace) Size() int {
	return len(n.data)
}

// Seq iterates over (key, state) pairs in insertion order.
func (n *Namespace) Seq() iter.Seq2[string, *State] {
	return func(yield func(string, *State) bool) {
		for _, key := range n.orderedKeys {
			e, ok := n.data[key]
			if !ok {
				continue
			}

			if !yield(key, e.state) {
				return
			}
		}
	}
}

// States returns every registered state in insertion order.
func (n *Namespace) States() []*State {
	out := make([]*State, 0, len(n.orderedKeys))
	for _, state := range n.Seq() {
		out = append(out, state)
	}

	return out
}

// Find looks up id from scope path. Tiers are tried in order and the first hit
// wins:
//
//  1. the scoped key of id in path;
//  2. the unscoped (root) key id;
//  3. the scoped key of id in each ancestor of path, innermost first;
//  4. when allowSiblingSearch is set and path is not the root, the first state
//     in insertion order whose id matches and which either lives in an ancestor
//     of path or was only ever referenced by transitions (never declared), so
//     that it can be promoted to the nearest common ancestor;
//  5. when path is the root, the first key that equals id or ends with
//     "_"+id and whose state has that id.
func (n *Namespace) Find(id string, path Path, allowSiblingSearch bool) (Match, bool) {
	if m, ok := n.Lookup(ScopedKey(id, path)); ok {
		return m, true
	}

	if m, ok := n.Lookup(id); ok {
		return m, true
	}

	for i := path.Len(); i > 0; i-- {
		if m, ok := n.Lookup(path.Prefix(i).String() + ScopeSeparator + id); ok {
			return m, true
		}
	}

	if allowSiblingSearch && !path.IsRoot() {
		for _, key := range n.orderedKeys {
			e := n.data[key]
			if e.state.ID != id {
				continue
			}

			if path.HasPrefix(e.scope) || !e.state.declared {
				return Match{State: e.state, Key: e.key, Scope: e.scope}, true
			}
		}
	}

	if path.IsRoot() {
		suffix := ScopeSeparator + id

		for _, key := range n.orderedKeys {
			e := n.data[key]
			if (key == id || strings.HasSuffix(key, suffix)) && e.state.ID == id {
				return Match{State: e.state, Key: e.key, Scope: e.scope}, true
			}
		}
	}

	return Match{}, false
}

// Promote re-keys state from oldKey to newKey in scope and points its ParentID
// at the innermost composite of scope. Promoting a state that is already at
// newKey only refreshes its scope and parent.
func (n *Namespace) Promote(state *State, oldKey, newKey string, scope Path) {
	if oldKey != newKey {
		n.Remove(oldKey)
	}

	n.Add(newKey, scope, state)
	state.ParentID = scope.Owner()
}
