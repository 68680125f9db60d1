package retrieval

import "school-tutor-rag/internal/models"

// Filter is the metadata predicate a chunk must satisfy to be eligible
// for a query. Subject equality is mandatory; content type is optional.
// Built fresh per query, never mutated after construction.
type Filter struct {
	Subject     models.Subject
	ContentType models.ContentType
}

// BuildFilter translates classification results into a retrieval
// predicate. The response language is deliberately not a constraint:
// retrieval may cross-reference English and Tamil material within a
// subject, and the desired output language travels on the Query for
// prompt assembly instead.
func BuildFilter(q models.Query) Filter {
	f := Filter{Subject: q.Subject, ContentType: models.ContentUnknown}
	if q.ContentHint != models.ContentUnknown {
		f.ContentType = q.ContentHint
	}
	return f
}

// Matches reports whether chunk metadata satisfies the predicate.
func (f Filter) Matches(meta models.ChunkMetadata) bool {
	if meta.Subject != f.Subject {
		return false
	}
	if f.ContentType != models.ContentUnknown && meta.ContentType != f.ContentType {
		return false
	}
	return true
}

// Relaxed drops the content-type constraint, reporting whether anything
// changed. Used for the single relaxation retry on empty retrieval.
func (f Filter) Relaxed() (Filter, bool) {
	if f.ContentType == models.ContentUnknown {
		return f, false
	}
	return Filter{Subject: f.Subject, ContentType: models.ContentUnknown}, true
}
