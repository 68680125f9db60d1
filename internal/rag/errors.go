package rag

import "errors"

// Error kinds surfaced to callers. Each is distinguishable with
// errors.Is so a UI can render the right message.
var (
	// ErrUnclassifiableQuery means no subject could be determined even
	// via the generation fallback; the user should rephrase.
	ErrUnclassifiableQuery = errors.New("could not determine a subject for this question")

	// ErrGenerationUnavailable means the generation service was
	// unreachable or timed out after the bounded retries.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrMalformedOutput means the generator produced non-conforming
	// output twice, including the single repair attempt.
	ErrMalformedOutput = errors.New("generation produced malformed output")
)
