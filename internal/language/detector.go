package language

import (
	"regexp"
	"strings"

	"school-tutor-rag/internal/models"
)

// Tamil Unicode block.
const (
	tamilRangeStart = 0x0B80
	tamilRangeEnd   = 0x0BFF
)

// The phrase must stand on word boundaries: "explain tamil grammar"
// contains "in tamil" as a substring but is not a translation request.
var inTamilRe = regexp.MustCompile(`(?i)\bin tamil\b`)

// Detect classifies the query language and returns the text to use for
// downstream processing. A query containing any Tamil-script codepoint
// is Tamil. A query containing the phrase "in tamil" is Tamil too, with
// the phrase stripped so it does not pollute classification or
// retrieval. Everything else, including empty input, is English.
func Detect(raw string) (models.Language, string) {
	if ContainsTamil(raw) {
		return models.LanguageTamil, raw
	}
	if loc := inTamilRe.FindStringIndex(raw); loc != nil {
		stripped := raw[:loc[0]] + raw[loc[1]:]
		return models.LanguageTamil, strings.Join(strings.Fields(stripped), " ")
	}
	return models.LanguageEnglish, raw
}

// ContainsTamil reports whether text has at least one codepoint in the
// Tamil Unicode block.
func ContainsTamil(text string) bool {
	for _, r := range text {
		if r >= tamilRangeStart && r <= tamilRangeEnd {
			return true
		}
	}
	return false
}
