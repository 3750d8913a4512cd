package statediagram

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

const (
	historyKeyword = "history"
	resumeKeyword  = "resume"

	// autoTrigger keys redirected transitions that carry no label.
	autoTrigger = "auto"
)

// historyTargetPatterns extract an explicit composite name from a note, in
// priority order.
var historyTargetPatterns = []*regexp.Regexp{ //nolint:gochecknoglobals
	regexp.MustCompile(`(?i)\b(?:transitions?|returns?|resumes?|goes|go|jumps?)\s+(?:back\s+)?to\s+(?:the\s+)?([\w.-]+)(?:'s)?\s+history\b`),
	regexp.MustCompile(`(?i)\b([\w.-]+)(?:'s)?\s+history\s+state\b`),
	regexp.MustCompile(`(?i)\bhistory\s+(?:state\s+|pseudostate\s+)?of\s+(?:the\s+)?([\w.-]+)`),
}

// historyStopWords are captures that can never name a composite.
var historyStopWords = map[string]bool{ //nolint:gochecknoglobals
	"a": true, "an": true, "the": true, "its": true, "their": true, "to": true, "of": true,
	"shallow": true, "deep": true, "last": true, "previous": true,
}

// historyProcessor turns "resume to the history of X" notes into history
// pseudostates and redirects the matching transitions. It runs once, after
// resolution, and never fails: notes it cannot interpret are logged and skipped.
type historyProcessor struct {
	ctx     context.Context //nolint:containedctx // Scoped to a single conversion
	diagram *Diagram
	logger  *slog.Logger
	caser   cases.Caser

	created    int
	unresolved map[string]int
}

func newHistoryProcessor(ctx context.Context, diagram *Diagram, logger *slog.Logger) *historyProcessor {
	return &historyProcessor{
		ctx:        ctx,
		diagram:    diagram,
		logger:     logger,
		caser:      cases.Fold(),
		unresolved: make(map[string]int),
	}
}

func (h *historyProcessor) run() {
	for _, note := range h.diagram.Notes {
		if !strings.Contains(strings.ToLower(note.Content), historyKeyword) {
			continue
		}

		h.process(note)
	}
}

func (h *historyProcessor) process(note *Note) {
	candidates := h.candidates(note.Target)

	name, ok := explicitHistoryTarget(note.Content)
	if !ok {
		name, ok = h.inferTarget(candidates)
	}

	if !ok {
		h.skip(note, "no_target", "")

		return
	}

	compositeID, ok := h.canonicalID(name)
	if !ok {
		h.skip(note, "unknown_state", name)

		return
	}

	history := h.historyState(compositeID)

	for _, t := range h.diagram.Transitions {
		if !candidates[t.From] || t.To == history {
			continue
		}

		if t.To.ID != compositeID && !h.isInside(t.To, compositeID) && !containsFold(t.Label, resumeKeyword) {
			continue
		}

		t.To = history
		t.IsHistory = true

		trigger := t.Label
		if trigger == "" {
			trigger = autoTrigger
		}

		h.diagram.HistoryTransitions[HistoryKey{Source: t.From.ID, Trigger: trigger}] = compositeID
	}
}

// candidates returns the note's target and its direct children.
func (h *historyProcessor) candidates(target *State) map[*State]bool {
	out := map[*State]bool{target: true}

	for _, s := range h.diagram.States {
		if s.ParentID == target.ID && s.ParentID != "" {
			out[s] = true
		}
	}

	return out
}

// inferTarget looks for a "resume" transition leaving one of the candidates.
// Its destination is the composite when it has children, otherwise the
// destination's parent is.
func (h *historyProcessor) inferTarget(candidates map[*State]bool) (string, bool) {
	for _, t := range h.diagram.Transitions {
		if !candidates[t.From] || !containsFold(t.Label, resumeKeyword) {
			continue
		}

		if t.To.IsComposite() || h.diagram.HasChildren(t.To.ID) {
			return t.To.ID, true
		}

		if t.To.ParentID != "" {
			return t.To.ParentID, true
		}
	}

	return "", false
}

// canonicalID matches name case-insensitively against the known state ids.
func (h *historyProcessor) canonicalID(name string) (string, bool) {
	folded := h.caser.String(name)

	for _, s := range h.diagram.States {
		if s.IsMarker() || s.Kind == KindHistory {
			continue
		}

		if h.caser.String(s.ID) == folded {
			return s.ID, true
		}
	}

	return "", false
}

// historyState returns the history pseudostate of compositeID, creating it on first use.
func (h *historyProcessor) historyState(compositeID string) *State {
	if existing, ok := h.diagram.HistoryStates[compositeID]; ok {
		return existing
	}

	history := NewHistoryState(compositeID)
	h.diagram.HistoryStates[compositeID] = history
	h.diagram.States = append(h.diagram.States, history)
	h.created++

	return history
}

// isInside reports whether state is nested, at any depth, in compositeID.
func (h *historyProcessor) isInside(state *State, compositeID string) bool {
	parent := state.ParentID

	for range len(h.diagram.States) {
		if parent == "" {
			return false
		}

		if parent == compositeID {
			return true
		}

		next, ok := h.diagram.State(parent)
		if !ok {
			return false
		}

		parent = next.ParentID
	}

	return false
}

func (h *historyProcessor) skip(note *Note, reason, name string) {
	h.unresolved[reason]++

	h.logger.WarnContext(h.ctx, "Could not resolve history annotation",
		"note_target", note.Target.ID,
		"reason", reason,
		"name", name,
		"err", ErrHistoryTargetUnresolved,
	)
}

// explicitHistoryTarget extracts a composite name spelled out in the note text.
func explicitHistoryTarget(text string) (string, bool) {
	for _, pattern := range historyTargetPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.Trim(match[1], ".-")
			if name == "" || historyStopWords[strings.ToLower(name)] {
				continue
			}

			return name, true
		}
	}

	return "", false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
