package statediagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registered(ns *Namespace, id string, path Path, declared bool) *State {
	s := &State{ID: id, ParentID: path.Owner(), Kind: KindPlain, declared: declared}
	ns.Add(ScopedKey(id, path), path, s)

	return s
}

func TestNamespaceOrderAndReplace(t *testing.T) {
	t.Parallel()

	ns := NewNamespace()
	a := registered(ns, "A", RootPath(), true)
	registered(ns, "B", RootPath(), true)
	registered(ns, "C", RootPath(), true)

	replacement := &State{ID: "A"}
	ns.Add("A", RootPath(), replacement)

	assert.Equal(t, 3, ns.Size())
	assert.Equal(t, []*State{replacement, mustGet(t, ns, "B"), mustGet(t, ns, "C")}, ns.States())
	assert.NotSame(t, a, ns.States()[0])

	ns.Remove("B")
	ns.Remove("missing")
	assert.False(t, ns.Contains("B"))

	var keys []string
	for key := range ns.Seq() {
		keys = append(keys, key)
	}

	assert.Equal(t, []string{"A", "C"}, keys)
}

func mustGet(t *testing.T, ns *Namespace, key string) *State {
	t.Helper()

	s, ok := ns.Get(key)
	require.True(t, ok, "key %s", key)

	return s
}

func TestNamespaceFindTiers(t *testing.T) {
	t.Parallel()

	ns := NewNamespace()
	root := registered(ns, "Root", RootPath(), true)
	local := registered(ns, "Idle", PathOf("On", "LoggedIn"), true)
	ancestor := registered(ns, "LoggedOut", PathOf("On"), true)
	cousinDeclared := registered(ns, "Busy", PathOf("On", "Other"), true)
	cousinReferenced := registered(ns, "Error", PathOf("On", "LoggedOut"), false)
	deep := registered(ns, "Deep", PathOf("On", "LoggedIn", "Print"), true)

	from := PathOf("On", "LoggedIn")

	tests := []struct {
		name    string
		id      string
		path    Path
		sibling bool
		want    *State
	}{
		{"exact scope", "Idle", from, true, local},
		{"root key", "Root", from, true, root},
		{"ancestor scope", "LoggedOut", PathOf("On", "LoggedIn", "Print"), true, ancestor},
		{"undeclared cousin", "Error", from, true, cousinReferenced},
		{"undeclared cousin without sibling search", "Error", from, false, nil},
		{"declared cousin is not borrowed", "Busy", from, true, nil},
		{"root suffix search", "Deep", RootPath(), false, deep},
		{"root suffix search for declared cousin", "Busy", RootPath(), false, cousinDeclared},
		{"missing", "Nope", from, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, ok := ns.Find(tt.id, tt.path, tt.sibling)
			if tt.want == nil {
				assert.False(t, ok)

				return
			}

			require.True(t, ok)
			assert.Same(t, tt.want, m.State)
		})
	}
}

func TestNamespacePromote(t *testing.T) {
	t.Parallel()

	ns := NewNamespace()
	err := registered(ns, "Error", PathOf("On", "LoggedOut"), false)
	registered(ns, "Other", RootPath(), true)

	ns.Promote(err, "On_LoggedOut_Error", "On_Error", PathOf("On"))

	assert.False(t, ns.Contains("On_LoggedOut_Error"))
	assert.Same(t, err, mustGet(t, ns, "On_Error"))
	assert.Equal(t, "On", err.ParentID)
	assert.Equal(t, "On_Error", err.ScopedID)

	// Promoted states move to the end of the order.
	assert.Equal(t, "Other", ns.States()[0].ID)

	// Promoting again to the same key changes nothing.
	ns.Promote(err, "On_Error", "On_Error", PathOf("On"))
	assert.Equal(t, 2, ns.Size())
	assert.Equal(t, "On", err.ParentID)
	assert.Equal(t, "On_Error", err.ScopedID)

	m, ok := ns.Lookup("On_Error")
	require.True(t, ok)
	assert.True(t, m.Scope.Equal(PathOf("On")))
}

func TestNamespacePromoteToRoot(t *testing.T) {
	t.Parallel()

	ns := NewNamespace()
	off := registered(ns, "Off", PathOf("On"), false)

	ns.Promote(off, "On_Off", "Off", RootPath())

	assert.Empty(t, off.ParentID)
	assert.Same(t, off, mustGet(t, ns, "Off"))
	assert.Equal(t, 1, ns.Size())
}
