package visualizer

import (
	"github.com/amp-labs/diagram-common/statediagram"
)

// nestedRenderer writes composites as blocks. A transition whose endpoint is a
// start or end marker is written inside the block of that marker's scope,
// since "[*]" means the enclosing composite's pseudostate. Every other
// transition is written at the top level, where Mermaid resolves ids globally.
type nestedRenderer struct {
	d       *statediagram.Diagram
	w       *writer
	written map[*statediagram.Transition]bool
	regions map[*statediagram.State]bool
}

func newNestedRenderer(d *statediagram.Diagram, w *writer) *nestedRenderer {
	r := &nestedRenderer{
		d:       d,
		w:       w,
		written: make(map[*statediagram.Transition]bool),
		regions: make(map[*statediagram.State]bool),
	}

	// Region state lists also carry descendants of composites nested in the
	// region; only the owner's direct children are written by the region.
	for _, s := range d.States {
		for _, region := range s.Regions {
			for _, member := range region.States {
				if member.ParentID == s.ID {
					r.regions[member] = true
				}
			}
		}
	}

	return r
}

func (r *nestedRenderer) render() {
	r.writeChildren("", 1)
	r.writeMarkerTransitions(r.d.Transitions, "", 1)

	for _, t := range r.d.Transitions {
		if !r.written[t] {
			r.w.line(1, t.String())
		}
	}
}

// writeChildren declares the children of parentID that do not belong to a region.
func (r *nestedRenderer) writeChildren(parentID string, depth int) {
	for _, s := range r.d.States {
		if s.ParentID != parentID || s.IsMarker() || r.regions[s] {
			continue
		}

		r.writeState(s, depth)
	}
}

func (r *nestedRenderer) writeState(s *statediagram.State, depth int) {
	if !s.IsComposite() {
		r.w.line(depth, stateLine(s))

		return
	}

	if s.Content != "" {
		r.w.line(depth, stateLine(s))
	}

	r.w.line(depth, "state "+s.ID+" {")

	if len(s.Regions) == 0 {
		r.writeChildren(s.ID, depth+1)
		r.writeMarkerTransitions(r.d.Transitions, s.ID, depth+1)
	} else {
		// History pseudostates and other non-region children stay outside the regions.
		r.writeChildren(s.ID, depth+1)

		for i, region := range s.Regions {
			if i > 0 {
				r.w.line(depth+1, "--")
			}

			for _, member := range region.States {
				if !member.IsMarker() && member.ParentID == s.ID {
					r.writeState(member, depth+1)
				}
			}

			r.writeMarkerTransitions(region.Transitions, s.ID, depth+1)
		}
	}

	r.w.line(depth, "}")
}

// writeMarkerTransitions writes the not yet written transitions touching a
// marker of scope parentID.
func (r *nestedRenderer) writeMarkerTransitions(transitions []*statediagram.Transition, parentID string, depth int) {
	for _, t := range transitions {
		if r.written[t] || !touchesMarkerOf(t, parentID) {
			continue
		}

		r.w.line(depth, t.String())
		r.written[t] = true
	}
}

func touchesMarkerOf(t *statediagram.Transition, parentID string) bool {
	return (t.From.IsMarker() && t.From.ParentID == parentID) ||
		(t.To.IsMarker() && t.To.ParentID == parentID)
}
