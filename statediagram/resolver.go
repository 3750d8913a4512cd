package statediagram

import (
	"context"
	"log/slog"

	"github.com/amp-labs/diagram-common/document"
)

// resolver walks a statement tree and populates one namespace. It is created
// per conversion and never shared.
type resolver struct {
	ctx    context.Context //nolint:containedctx // Scoped to a single conversion
	ns     *Namespace
	logger *slog.Logger
	stats  resolveStats
}

type resolveStats struct {
	rootPromotions     int
	ancestorPromotions int
}

func newResolver(ctx context.Context, logger *slog.Logger) *resolver {
	return &resolver{
		ctx:    ctx,
		ns:     NewNamespace(),
		logger: logger,
	}
}

// scopeResult collects what one scope (and everything beneath it) produced.
type scopeResult struct {
	states      *stateSet
	notes       []*Note
	transitions []*Transition

	// pending holds note targets that were never declared in this scope. They
	// live only in states until a transition or the end of the scope registers
	// them in the namespace.
	pending map[string]*State
}

func newScopeResult() *scopeResult {
	return &scopeResult{
		states:  newStateSet(),
		pending: make(map[string]*State),
	}
}

func (s *scopeResult) merge(other *scopeResult) {
	for _, state := range other.states.list {
		s.states.Set(state.ID, state)
	}

	s.notes = append(s.notes, other.notes...)
	s.transitions = append(s.transitions, other.transitions...)
}

// resolve processes one scope. parentID is the owning composite (empty at the
// root) and path is the scope used for namespace keys; parallel regions share
// their composite's parentID but get a path of their own.
//
// Pass 1 declares states and notes. The root then recurses into composites
// before resolving its own transitions, so that root-level transitions can see
// every nested declaration; nested scopes resolve their transitions first and
// recurse afterwards. Pass 4 resolves parallel regions.
func (r *resolver) resolve(stmts []document.Statement, parentID string, path Path) *scopeResult {
	res := newScopeResult()

	var (
		composites []document.Statement
		dividers   []document.Statement
	)

	for _, stmt := range stmts {
		if stmt.Bare || stmt.Kind != document.KindState {
			continue
		}

		if stmt.IsDivider() {
			dividers = append(dividers, stmt)

			continue
		}

		if stmt.IsNote() {
			r.declareNote(stmt, parentID, path, res)

			continue
		}

		if r.declareState(stmt, parentID, path, res) {
			composites = append(composites, stmt)
		}
	}

	if parentID == "" {
		r.recurse(composites, path, res)
		res.transitions = append(res.transitions, r.resolveTransitions(stmts, parentID, path, res)...)
	} else {
		res.transitions = append(res.transitions, r.resolveTransitions(stmts, parentID, path, res)...)
		r.recurse(composites, path, res)
	}

	r.settlePending(path, res)

	if len(dividers) > 0 {
		regions := r.resolveRegions(dividers, parentID, path)
		for i := range regions {
			region := &regions[i]
			for _, state := range region.States {
				res.states.Set(state.ID, state)
			}

			res.transitions = append(res.transitions, region.Transitions...)
			res.notes = append(res.notes, region.Notes...)
		}

		if parentID != "" {
			r.attachRegions(parentID, path, regions)
		}
	}

	return res
}

// declareState handles a plain or composite declaration. It reports whether
// the statement's nested document still has to be resolved.
func (r *resolver) declareState(stmt document.Statement, parentID string, path Path, res *scopeResult) bool {
	key := ScopedKey(stmt.ID, path)

	existing, ok := r.ns.Get(key)
	if !ok {
		state, adopted := res.pending[stmt.ID]
		if adopted {
			delete(res.pending, stmt.ID)
			adopt(state, NewState(stmt, parentID, key))
		} else {
			state = NewState(stmt, parentID, key)
		}

		state.declared = true

		res.states.Set(stmt.ID, state)
		r.ns.Add(key, path, state)

		return stmt.HasDoc
	}

	if stmt.Description != "" {
		existing.Content = stmt.Description
	}

	existing.declared = true

	// A state first seen as a plain reference may turn out to be a composite.
	if stmt.HasDoc && existing.Kind == KindPlain {
		existing.Kind = KindComposite
		existing.SubStates = []*State{}

		return true
	}

	return false
}

// declareNote binds a note to its target, creating a pending target when the
// state has not been seen in this scope yet.
func (r *resolver) declareNote(stmt document.Statement, parentID string, path Path, res *scopeResult) {
	target, ok := res.states.Get(stmt.ID)
	if !ok {
		target, ok = r.ns.Get(ScopedKey(stmt.ID, path))
	}

	if !ok {
		target = NewState(stmt, parentID, ScopedKey(stmt.ID, path))
		res.pending[stmt.ID] = target
	}

	res.states.Set(stmt.ID, target)
	res.notes = append(res.notes, &Note{
		Content:  stmt.Note.Text,
		Target:   target,
		Position: stmt.Note.Position,
	})
}

// settlePending registers note targets that no declaration or transition
// claimed. A state with the same id found elsewhere takes over the notes.
func (r *resolver) settlePending(path Path, res *scopeResult) {
	if len(res.pending) == 0 {
		return
	}

	for _, note := range res.notes {
		state := note.Target
		if res.pending[state.ID] != state {
			continue
		}

		delete(res.pending, state.ID)

		m, ok := r.ns.Find(state.ID, path, true)
		if !ok {
			r.ns.Add(ScopedKey(state.ID, path), path, state)

			continue
		}

		for _, other := range res.notes {
			if other.Target == state {
				other.Target = m.State
			}
		}

		if current, ok := res.states.Get(state.ID); ok && current == state {
			res.states.Set(state.ID, m.State)
		}
	}
}

func (r *resolver) recurse(composites []document.Statement, path Path, res *scopeResult) {
	for _, composite := range composites {
		nested := r.resolve(composite.Doc, composite.ID, path.Child(composite.ID))
		res.merge(nested)
	}
}

// attachRegions stores regions on the composite that owns them: first by the
// composite's own key, then by its unscoped id, then by scanning for the id.
func (r *resolver) attachRegions(parentID string, path Path, regions []Region) {
	owner, ok := r.ns.Get(path.String())
	if !ok || owner.ID != parentID {
		owner, ok = r.ns.Get(parentID)
	}

	if !ok {
		for _, state := range r.ns.Seq() {
			if state.ID == parentID && !state.IsMarker() {
				owner, ok = state, true

				break
			}
		}
	}

	if !ok {
		r.logger.DebugContext(r.ctx, "No owner found for parallel regions", "composite", parentID)

		return
	}

	owner.Regions = regions
	if owner.Kind == KindPlain {
		owner.Kind = KindComposite
	}

	r.logger.DebugContext(r.ctx, "Attached parallel regions", "composite", parentID, "regions", len(regions))
}

// adopt copies the classification of fresh onto state, keeping state's identity.
func adopt(state, fresh *State) {
	state.Kind = fresh.Kind
	state.ParentID = fresh.ParentID
	state.ScopedID = fresh.ScopedID

	if fresh.Content != "" {
		state.Content = fresh.Content
	}

	if fresh.SubStates != nil {
		state.SubStates = fresh.SubStates
	}
}

// stateSet is a scope-local view of states keyed by id, in first-seen order.
type stateSet struct {
	index map[string]int
	list  []*State
}

func newStateSet() *stateSet {
	return &stateSet{index: make(map[string]int)}
}

// Set stores state under id, replacing an earlier state with the same id in place.
func (s *stateSet) Set(id string, state *State) {
	if i, ok := s.index[id]; ok {
		s.list[i] = state

		return
	}

	s.index[id] = len(s.list)
	s.list = append(s.list, state)
}

func (s *stateSet) Get(id string) (*State, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}

	return s.list[i], true
}
