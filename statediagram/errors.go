package statediagram

import "errors"

var (
	// ErrUnsupportedGraphType is returned when the document is not a state diagram.
	ErrUnsupportedGraphType = errors.New("unsupported graph type")
	// ErrNilDocument is returned when Convert is called without a document.
	ErrNilDocument = errors.New("nil document")
	// ErrHistoryTargetUnresolved marks history annotations that were skipped. It
	// is reported in logs only and never returned.
	ErrHistoryTargetUnresolved = errors.New("history target unresolved")
)
