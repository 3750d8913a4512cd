package statediagram

import (
	"github.com/amp-labs/diagram-common/document"
)

// resolveTransitions turns the relation statements of one scope into
// transitions, in source order. Endpoints that cannot be found are created.
func (r *resolver) resolveTransitions(
	stmts []document.Statement,
	parentID string,
	path Path,
	res *scopeResult,
) []*Transition {
	var transitions []*Transition

	for _, stmt := range stmts {
		if stmt.Bare || stmt.Kind != document.KindRelation {
			continue
		}

		if stmt.State1 == nil || stmt.State2 == nil {
			r.logger.DebugContext(r.ctx, "Skipping relation without both endpoints", "scope", path.String())

			continue
		}

		from := r.resolveSource(*stmt.State1, parentID, path, res)
		to := r.resolveTarget(*stmt.State2, stmt.State1.ID, parentID, path, res)

		transitions = append(transitions, &Transition{
			From:  from,
			To:    to,
			Label: stmt.Label(),
		})
	}

	return transitions
}

// resolveSource finds or creates the source of a transition. A source found in
// a nested scope while resolving the root is promoted to the root, unless a
// root-level state with that id already exists, in which case that one is used.
func (r *resolver) resolveSource(ep document.Statement, parentID string, path Path, res *scopeResult) *State {
	m, ok := r.ns.Find(ep.ID, path, true)
	if !ok {
		return r.synthesize(ep, parentID, path, res)
	}

	// At the root the first lookup tier is the root key itself, so a match
	// under any other key means the id is not declared at the root yet.
	if parentID != "" || m.Key == ep.ID {
		return m.State
	}

	r.ns.Promote(m.State, m.Key, ep.ID, RootPath())
	r.stats.rootPromotions++

	r.logger.DebugContext(r.ctx, "Promoted transition source to root",
		"state", ep.ID,
		"from_key", m.Key,
	)

	return m.State
}

// resolveTarget finds or creates the target of a transition. Targets of
// initial transitions are never borrowed from unrelated scopes. A target found
// in a scope that diverges from the current one is moved to the nearest common
// ancestor of both scopes.
func (r *resolver) resolveTarget(
	ep document.Statement,
	sourceID string,
	parentID string,
	path Path,
	res *scopeResult,
) *State {
	m, ok := r.ns.Find(ep.ID, path, !isInitialSource(sourceID))
	if !ok {
		return r.synthesize(ep, parentID, path, res)
	}

	if path.IsRoot() || m.Scope.IsRoot() || m.Scope.Equal(path) {
		return m.State
	}

	ancestor, ok := CommonAncestor(m.Scope, path)
	if !ok {
		return m.State
	}

	newKey := ScopedKey(ep.ID, ancestor)
	if newKey != m.Key {
		r.stats.ancestorPromotions++

		r.logger.DebugContext(r.ctx, "Promoted transition target to common ancestor",
			"state", ep.ID,
			"from_key", m.Key,
			"to_key", newKey,
		)
	}

	r.ns.Promote(m.State, m.Key, newKey, ancestor)

	return m.State
}

// synthesize creates an endpoint that was never declared. A composite
// referring to itself is created at the root; every other endpoint, markers
// included, is created in the current scope.
func (r *resolver) synthesize(ep document.Statement, parentID string, path Path, res *scopeResult) *State {
	key, scope, parent := ScopedKey(ep.ID, path), path, parentID

	if parentID != "" && ep.ID == parentID {
		key, scope, parent = ep.ID, RootPath(), ""
	}

	fresh := NewState(ep, parent, key)

	state, ok := res.pending[ep.ID]
	if ok {
		delete(res.pending, ep.ID)
		adopt(state, fresh)
	} else {
		state = fresh
	}

	r.ns.Add(key, scope, state)
	res.states.Set(ep.ID, state)

	return state
}

// isInitialSource reports whether a transition from sourceID is an initial transition.
func isInitialSource(sourceID string) bool {
	return IsStartMarkerID(sourceID)
}
