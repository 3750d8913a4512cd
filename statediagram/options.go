package statediagram

import "log/slog"

// DefaultTitle is the title of diagrams converted without WithTitle.
const DefaultTitle = "State Diagram"

// Option configures a single conversion.
type Option func(*options)

type options struct {
	title            string
	logger           *slog.Logger
	historyInference bool
	translate        bool
}

func defaultOptions() options {
	return options{
		title:            DefaultTitle,
		historyInference: true,
		translate:        true,
	}
}

// WithTitle sets the title carried on the resulting diagram.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithLogger overrides the logger taken from the context.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHistoryInference toggles the history annotation pass. It is on by default.
func WithHistoryInference(enabled bool) Option {
	return func(o *options) {
		o.historyInference = enabled
	}
}

// WithTranslation toggles the rewrite of "[*]" pseudostates into per-scope
// start and end ids. Disable it only for documents that were already
// translated by the parser.
func WithTranslation(enabled bool) Option {
	return func(o *options) {
		o.translate = enabled
	}
}
