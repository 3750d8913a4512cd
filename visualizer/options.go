package visualizer

// Options configures the rendered script.
type Options struct {
	// Direction adds a "direction" statement, e.g. "LR" or "TB". Empty omits it.
	Direction string

	// Nested renders composites as "state X { ... }" blocks with their
	// children and parallel regions inside. The flat layout lists every state
	// at the top level and relies on the transitions to convey structure.
	Nested bool

	// Fenced wraps the script in a ```mermaid code fence.
	Fenced bool

	// Indent is the per-level indentation.
	Indent string
}

// DefaultOptions returns the flat, unfenced layout.
func DefaultOptions() Options {
	return Options{
		Indent: "    ",
	}
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithNested enables/disables nested composite blocks.
func (o Options) WithNested(nested bool) Options {
	o.Nested = nested

	return o
}

// WithFenced enables/disables the markdown code fence.
func (o Options) WithFenced(fenced bool) Options {
	o.Fenced = fenced

	return o
}

// WithIndent sets the per-level indentation.
func (o Options) WithIndent(indent string) Options {
	o.Indent = indent

	return o
}
