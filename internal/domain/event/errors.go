package event

import "errors"

// Event domain errors. None of these abort a batch: ambiguous and duplicate
// events are counted as skips by the reconciliation engine.
var (
	ErrAmbiguousKind = errors.New("event kind cannot be determined")
	ErrDuplicate     = errors.New("event log entry already exists")
)
