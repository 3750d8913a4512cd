package statediagram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/amp-labs/diagram-common/document"
	"github.com/amp-labs/diagram-common/logger"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Convert resolves a parsed state-diagram document into a Diagram.
//
// The conversion is single-threaded and owns all of its state, so concurrent
// calls on different documents are safe. The input document is never mutated.
func Convert(ctx context.Context, doc *document.Document, opts ...Option) (*Diagram, error) {
	return convert(ctx, opts, func() (*document.Document, error) {
		if doc == nil {
			return nil, ErrNilDocument
		}

		if !doc.IsStateDiagram() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedGraphType, doc.GraphType)
		}

		return doc, nil
	})
}

// ConvertMap decodes a parser result and converts it. The graph type is
// checked before the statement tree is decoded.
func ConvertMap(ctx context.Context, raw map[string]any, opts ...Option) (*Diagram, error) {
	return convert(ctx, opts, func() (*document.Document, error) {
		if graphType := document.GraphType(raw); !document.IsStateDiagramType(graphType) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedGraphType, graphType)
		}

		doc, err := document.FromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding state diagram: %w", err)
		}

		return doc, nil
	})
}

// convert runs one conversion. load supplies the checked input document; its
// failure is counted and traced like any other failed conversion.
func convert(ctx context.Context, opts []Option, load func() (*document.Document, error)) (*Diagram, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	conversionID := uuid.NewString()

	log := o.logger
	if log == nil {
		log = logger.Get(ctx)
	}

	log = log.With("conversion_id", conversionID)
	ctx = logger.WithLogger(ctx, log)

	ctx, span := startConvertSpan(ctx, conversionID)
	defer span.End()

	started := time.Now()

	doc, err := load()
	if err != nil {
		recordConversion(outcomeError, time.Since(started).Seconds())
		finishConvertSpan(span, nil, err)
		log.DebugContext(ctx, "State diagram conversion failed", "error", err)

		return nil, err
	}

	if o.translate {
		doc = document.Translate(doc)
	}

	r := newResolver(ctx, log)
	res := r.resolve(doc.Root, "", RootPath())

	diagram := &Diagram{
		Title:              o.title,
		States:             r.ns.States(),
		Transitions:        res.transitions,
		Notes:              res.notes,
		Initials:           make(map[string]string),
		HistoryStates:      make(map[string]*State),
		HistoryTransitions: make(map[HistoryKey]string),
	}

	computeInitials(diagram)

	if o.historyInference {
		h := newHistoryProcessor(ctx, diagram, log)
		h.run()
		recordHistory(h)
	}

	recordResolved(diagram, r.stats)
	recordConversion(outcomeSuccess, time.Since(started).Seconds())
	finishConvertSpan(span, diagram, nil)

	log.DebugContext(ctx, "Converted state diagram",
		"states", len(diagram.States),
		"transitions", len(diagram.Transitions),
		"notes", len(diagram.Notes),
		"root_promotions", r.stats.rootPromotions,
		"ancestor_promotions", r.stats.ancestorPromotions,
	)

	return diagram, nil
}

// computeInitials records where each start marker leads. The root start
// marker sets RootInitial; nested ones are keyed by their composite.
func computeInitials(d *Diagram) {
	for _, t := range d.Transitions {
		if t.From.Kind != KindStart {
			continue
		}

		if t.From.ParentID == "" {
			if d.RootInitial == "" {
				d.RootInitial = t.To.ID
			}

			continue
		}

		if _, ok := d.Initials[t.From.ParentID]; !ok {
			d.Initials[t.From.ParentID] = t.To.ID
		}
	}
}

// Fingerprint hashes the resolved structure: state ids, parents and kinds,
// then transitions and notes, in order. Diagrams that resolve to the same
// hierarchy share a fingerprint.
func (d *Diagram) Fingerprint() uint64 {
	h := xxh3.New()

	for _, s := range d.States {
		_, _ = h.WriteString(s.ID + "\x00" + s.ParentID + "\x00" + s.Kind.String() + "\x00" + s.Content + "\n")
	}

	for _, t := range d.Transitions {
		_, _ = h.WriteString(t.From.ID + "\x00" + t.To.ID + "\x00" + t.Label + "\x00" +
			strconv.FormatBool(t.IsHistory) + "\n")
	}

	for _, n := range d.Notes {
		_, _ = h.WriteString(n.Target.ID + "\x00" + n.Position + "\x00" + n.Content + "\n")
	}

	return h.Sum64()
}
