package types

import "errors"

var (
	// ErrUnsupportedFormat rejects unknown or unimplemented document types.
	// Fatal to the single document, never silently swallowed.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrStoreUnavailable means the vector index could not be reached. The
	// pipeline never degrades to an empty result set, that would be
	// indistinguishable from "no relevant chunks".
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrModelUnavailable means the embedding/generation host could not be
	// reached. Surfaced verbatim, retry policy belongs to the caller.
	ErrModelUnavailable = errors.New("model host unavailable")
)
