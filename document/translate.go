package document

import "fmt"

const (
	// Pseudostate is the raw token the parser emits for both initial and final states.
	Pseudostate = "[*]"

	rootID = "root"
)

// Translate returns a copy of doc with raw pseudostates and ungrouped dividers
// rewritten the way the diagram runtime expects them:
//
//   - a "[*]" endpoint becomes "<scope>_start" when it is the source of a
//     relation (or a lone declaration) and "<scope>_end" when it is the target,
//     where <scope> is the id of the enclosing composite ("root" at top level);
//   - a composite whose statements are separated by bare divider records is
//     restructured into one divider record per region, each owning the
//     statements of its region in "doc".
//
// Documents that are already translated come back unchanged.
func Translate(doc *Document) *Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}

	tr := &translator{}
	root := Statement{Kind: KindState, ID: rootID, Doc: out.Root, HasDoc: true}
	tr.visit(&root, &root, true)
	out.Root = root.Doc

	return out
}

type translator struct {
	dividers int
}

func (t *translator) visit(parent *Statement, node *Statement, first bool) {
	if node == nil {
		return
	}

	if node.Kind == KindRelation {
		t.visit(parent, node.State1, true)
		t.visit(parent, node.State2, false)

		return
	}

	if node.ID == Pseudostate {
		if first {
			node.ID = parent.ID + "_start"
		} else {
			node.ID = parent.ID + "_end"
		}
	}

	if !node.HasDoc {
		return
	}

	node.Doc = t.groupRegions(node.Doc)

	for i := range node.Doc {
		t.visit(node, &node.Doc[i], true)
	}
}

// groupRegions folds statements separated by bare dividers into divider records.
func (t *translator) groupRegions(stmts []Statement) []Statement {
	bare := false

	for _, stmt := range stmts {
		if stmt.IsDivider() && !stmt.HasDoc {
			bare = true

			break
		}
	}

	if !bare {
		return stmts
	}

	var (
		regions []Statement
		current []Statement
	)

	for _, stmt := range stmts {
		if !stmt.IsDivider() {
			current = append(current, stmt)

			continue
		}

		divider := stmt
		if divider.ID == "" {
			divider.ID = t.nextDividerID()
		}

		divider.Doc = current
		divider.HasDoc = true
		regions = append(regions, divider)
		current = nil
	}

	if len(current) > 0 {
		regions = append(regions, Statement{
			Kind:   KindState,
			ID:     t.nextDividerID(),
			Type:   TypeDivider,
			Doc:    current,
			HasDoc: true,
		})
	}

	return regions
}

func (t *translator) nextDividerID() string {
	t.dividers++

	return fmt.Sprintf("divider-id-%d", t.dividers)
}
