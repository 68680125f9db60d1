package models

import "strconv"

// Subject is one of the five curriculum subjects, each backed by its own
// vector index.
type Subject string

const (
	SubjectScience       Subject = "Science"
	SubjectMaths         Subject = "Maths"
	SubjectEnglish       Subject = "English"
	SubjectSocialScience Subject = "Social_Science"
	SubjectTamil         Subject = "Tamil"

	// SubjectUnclassified is the fail-closed sentinel returned when
	// neither the lexicon nor the generation fallback can determine a
	// subject.
	SubjectUnclassified Subject = "Unclassified"
)

// AllSubjects lists the indexable subjects.
var AllSubjects = []Subject{
	SubjectScience,
	SubjectMaths,
	SubjectEnglish,
	SubjectSocialScience,
	SubjectTamil,
}

// SubjectPriority is the fixed tie-break order for classification.
var SubjectPriority = []Subject{
	SubjectScience,
	SubjectMaths,
	SubjectSocialScience,
	SubjectEnglish,
	SubjectTamil,
}

// ParseSubject maps a label to a known subject, reporting whether the
// label is one of the five.
func ParseSubject(label string) (Subject, bool) {
	for _, s := range AllSubjects {
		if string(s) == label {
			return s, true
		}
	}
	return SubjectUnclassified, false
}

type Language string

const (
	LanguageEnglish Language = "English"
	LanguageTamil   Language = "Tamil"
)

type ContentType string

const (
	ContentTheory     ContentType = "theory"
	ContentExample    ContentType = "example"
	ContentExercise   ContentType = "exercise"
	ContentDefinition ContentType = "definition"
	ContentFormula    ContentType = "formula"
	ContentUnknown    ContentType = "unknown"
)

// ChunkMetadata describes one ingested chunk. All fields are set once at
// ingestion and read-only afterwards.
type ChunkMetadata struct {
	Subject     Subject
	SubSubject  string
	Grade       string
	Term        string
	Chapter     string
	Topic       string
	ContentType ContentType
	Language    Language
	SourceFile  string
	PageNumber  int
}

// Map flattens the metadata for storage alongside the vector.
func (m ChunkMetadata) Map() map[string]string {
	return map[string]string{
		"subject":      string(m.Subject),
		"sub_subject":  m.SubSubject,
		"grade":        m.Grade,
		"term":         m.Term,
		"chapter":      m.Chapter,
		"topic":        m.Topic,
		"content_type": string(m.ContentType),
		"language":     string(m.Language),
		"source_file":  m.SourceFile,
		"page_number":  strconv.Itoa(m.PageNumber),
	}
}

// MetadataFromMap rebuilds chunk metadata from a stored record.
func MetadataFromMap(m map[string]string) ChunkMetadata {
	page, _ := strconv.Atoi(m["page_number"])
	return ChunkMetadata{
		Subject:     Subject(m["subject"]),
		SubSubject:  m["sub_subject"],
		Grade:       m["grade"],
		Term:        m["term"],
		Chapter:     m["chapter"],
		Topic:       m["topic"],
		ContentType: ContentType(m["content_type"]),
		Language:    Language(m["language"]),
		SourceFile:  m["source_file"],
		PageNumber:  page,
	}
}

// Chunk is the immutable unit of ingested text.
type Chunk struct {
	ID       string
	Text     string
	Metadata ChunkMetadata
}

// Query carries the per-request routing state. It is created per
// incoming request and discarded after the response is returned.
type Query struct {
	RawText       string
	Normalized    string
	Language      Language
	Subject       Subject
	ContentHint   ContentType
	IsMathProblem bool
}

// Variant selects the response schema. The choice is a hard routing
// rule: Maths gets the step-by-step variant, everything else the prose
// variant.
func (q Query) Variant() Variant {
	if q.Subject == SubjectMaths {
		return VariantMath
	}
	return VariantGeneral
}

// ScoredChunk pairs a retrieved chunk with its cosine similarity.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// RetrievedContext is an ordered retrieval result, descending by score,
// ties kept in original index order.
type RetrievedContext []ScoredChunk
