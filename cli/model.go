package cli

import (
	"github.com/amp-labs/diagram-common/statediagram"
)

// diagramView is the serialized form of a resolved diagram. States are
// referenced by id; markers keep their generated ids so transitions stay
// unambiguous.
type diagramView struct {
	Name        string            `json:"name,omitempty"        yaml:"name,omitempty"`
	Title       string            `json:"title"                 yaml:"title"`
	Fingerprint uint64            `json:"fingerprint"           yaml:"fingerprint"`
	RootInitial string            `json:"rootInitial,omitempty" yaml:"rootInitial,omitempty"`
	Initials    map[string]string `json:"initials,omitempty"    yaml:"initials,omitempty"`
	States      []stateView       `json:"states"                yaml:"states"`
	Transitions []transitionView  `json:"transitions"           yaml:"transitions"`
	Notes       []noteView        `json:"notes,omitempty"       yaml:"notes,omitempty"`
	Error       string            `json:"error,omitempty"       yaml:"error,omitempty"`
}

type stateView struct {
	ID        string       `json:"id"                  yaml:"id"`
	Kind      string       `json:"kind"                yaml:"kind"`
	Content   string       `json:"content,omitempty"   yaml:"content,omitempty"`
	Parent    string       `json:"parent,omitempty"    yaml:"parent,omitempty"`
	HistoryOf string       `json:"historyOf,omitempty" yaml:"historyOf,omitempty"`
	Regions   []regionView `json:"regions,omitempty"   yaml:"regions,omitempty"`
}

type regionView struct {
	Name    string   `json:"name"              yaml:"name"`
	Divider string   `json:"divider"           yaml:"divider"`
	Initial string   `json:"initial,omitempty" yaml:"initial,omitempty"`
	States  []string `json:"states,omitempty"  yaml:"states,omitempty"`
}

type transitionView struct {
	From    string `json:"from"              yaml:"from"`
	To      string `json:"to"                yaml:"to"`
	Label   string `json:"label,omitempty"   yaml:"label,omitempty"`
	History bool   `json:"history,omitempty" yaml:"history,omitempty"`
}

type noteView struct {
	Target   string `json:"target"   yaml:"target"`
	Position string `json:"position" yaml:"position"`
	Content  string `json:"content"  yaml:"content"`
}

func newDiagramView(name string, d *statediagram.Diagram) diagramView {
	view := diagramView{
		Name:        name,
		Title:       d.Title,
		Fingerprint: d.Fingerprint(),
		RootInitial: d.RootInitial,
		States:      make([]stateView, 0, len(d.States)),
		Transitions: make([]transitionView, 0, len(d.Transitions)),
	}

	if len(d.Initials) > 0 {
		view.Initials = d.Initials
	}

	for _, s := range d.States {
		sv := stateView{
			ID:        s.ID,
			Kind:      s.Kind.String(),
			Content:   s.Content,
			Parent:    s.ParentID,
			HistoryOf: s.HistoryOf,
		}

		for _, region := range s.Regions {
			rv := regionView{Name: region.Name, Divider: region.DividerID, Initial: region.Initial}
			for _, member := range region.States {
				rv.States = append(rv.States, member.ID)
			}

			sv.Regions = append(sv.Regions, rv)
		}

		view.States = append(view.States, sv)
	}

	for _, t := range d.Transitions {
		view.Transitions = append(view.Transitions, transitionView{
			From:    t.From.ID,
			To:      t.To.ID,
			Label:   t.Label,
			History: t.IsHistory,
		})
	}

	for _, n := range d.Notes {
		view.Notes = append(view.Notes, noteView{
			Target:   n.Target.ID,
			Position: n.Position,
			Content:  n.Content,
		})
	}

	return view
}
