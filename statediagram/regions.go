package statediagram

import (
	"github.com/amp-labs/diagram-common/document"
)

// resolveRegions resolves each divider of a composite as an independent
// sub-scope. Regions are not states: their content keeps the composite as its
// parent and only the namespace path gains a region_<n> segment.
func (r *resolver) resolveRegions(dividers []document.Statement, parentID string, path Path) []Region {
	regions := make([]Region, 0, len(dividers))

	for idx, divider := range dividers {
		name := RegionName(idx)

		dividerID := divider.ID
		if dividerID == "" {
			dividerID = name
		}

		res := r.resolve(divider.Doc, parentID, path.Region(idx))

		regions = append(regions, Region{
			Name:        name,
			DividerID:   dividerID,
			States:      res.states.list,
			Transitions: res.transitions,
			Notes:       res.notes,
			Initial:     initialOf(res.states.list, res.transitions),
		})
	}

	return regions
}

// initialOf returns the id of the state the first start marker in states leads to.
func initialOf(states []*State, transitions []*Transition) string {
	for _, state := range states {
		if state.Kind != KindStart {
			continue
		}

		for _, t := range transitions {
			if t.From == state {
				return t.To.ID
			}
		}

		return ""
	}

	return ""
}
