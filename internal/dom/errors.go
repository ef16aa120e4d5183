package dom

import "errors"

var (
	// ErrCrossOrigin is returned by StyleSheet.Rules when the sheet comes
	// from another origin than the document.
	ErrCrossOrigin = errors.New("stylesheet rules are not readable from another origin")

	// ErrRulesUnavailable is returned by StyleSheet.Rules when the sheet could
	// not be loaded or parsed.
	ErrRulesUnavailable = errors.New("stylesheet rules are unavailable")

	// ErrNilReader is returned by Parse when no input is given.
	ErrNilReader = errors.New("nil document reader")
)
