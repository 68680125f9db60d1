package ingest

import (
	"regexp"
	"strings"

	"school-tutor-rag/internal/models"
)

// Filename conventions follow the textbook corpus, e.g.
// "7th_Science_Term_II_EM.pdf": grade, subject, term, and medium of
// instruction are all recoverable from the name.
var (
	gradeRe = regexp.MustCompile(`(?i)(\d+)(?:th|st|nd|rd)?[_\s]`)
	termRe  = regexp.MustCompile(`(?i)Term[_\s-]*(I{1,3}|\d+)`)

	subjectPatterns = []struct {
		subject models.Subject
		re      *regexp.Regexp
	}{
		// Social_Science before Science: the latter matches both.
		{models.SubjectSocialScience, regexp.MustCompile(`(?i)Social[_\s]?Science`)},
		{models.SubjectScience, regexp.MustCompile(`(?i)Science`)},
		{models.SubjectMaths, regexp.MustCompile(`(?i)Maths?`)},
		{models.SubjectEnglish, regexp.MustCompile(`(?i)English`)},
		{models.SubjectTamil, regexp.MustCompile(`(?i)Tamil`)},
	}

	tamilMediumRe = regexp.MustCompile(`_TM(?:[._]|$)`)

	romanTerms = map[string]string{"I": "1", "II": "2", "III": "3"}
)

// MetadataFromFilename derives the per-file metadata every chunk of the
// file inherits.
func MetadataFromFilename(filename string) models.ChunkMetadata {
	meta := models.ChunkMetadata{
		Subject:    models.SubjectUnclassified,
		SubSubject: "General",
		Grade:      "7",
		Language:   models.LanguageEnglish,
		SourceFile: filename,
	}

	if m := gradeRe.FindStringSubmatch(filename); m != nil {
		meta.Grade = m[1]
	}
	for _, sp := range subjectPatterns {
		if sp.re.MatchString(filename) {
			meta.Subject = sp.subject
			break
		}
	}
	if m := termRe.FindStringSubmatch(filename); m != nil {
		term := strings.ToUpper(m[1])
		if arabic, ok := romanTerms[term]; ok {
			term = arabic
		}
		meta.Term = term
	}
	if tamilMediumRe.MatchString(filename) || meta.Subject == models.SubjectTamil {
		meta.Language = models.LanguageTamil
	}
	meta.SubSubject = defaultSubSubject(meta.Subject)
	return meta
}

func defaultSubSubject(subject models.Subject) string {
	switch subject {
	case models.SubjectScience:
		return "General Science"
	case models.SubjectMaths:
		return "General Mathematics"
	case models.SubjectEnglish:
		return "English Language"
	case models.SubjectSocialScience:
		return "General Social Science"
	case models.SubjectTamil:
		return "Tamil Language"
	}
	return "General"
}

// Sub-subject refinement keyword families, per subject.
var subSubjectKeywords = map[models.Subject][]struct {
	name     string
	keywords []string
}{
	models.SubjectScience: {
		{"Physics", []string{"force", "motion", "energy", "gravity", "velocity", "acceleration", "momentum", "wave", "light", "sound", "விசை", "இயக்கம்", "ஆற்றல்"}},
		{"Chemistry", []string{"atom", "molecule", "element", "compound", "reaction", "acid", "base", "chemical", "periodic", "bond", "அணு", "மூலக்கூறு", "தனிமம்"}},
		{"Biology", []string{"cell", "organism", "plant", "animal", "photosynthesis", "respiration", "digestion", "circulation", "nervous", "செல்", "உயிரினம்", "தாவரம்"}},
	},
	models.SubjectMaths: {
		{"Algebra", []string{"equation", "variable", "polynomial", "linear", "quadratic", "சமன்பாடு", "மாறி"}},
		{"Geometry", []string{"triangle", "circle", "angle", "area", "perimeter", "முக்கோணம்", "வட்டம்", "பரப்பு"}},
		{"Arithmetic", []string{"number", "fraction", "decimal", "percentage", "ratio", "எண்", "பின்னம்", "விகிதம்"}},
	},
	models.SubjectSocialScience: {
		{"History", []string{"history", "ancient", "medieval", "modern", "civilization", "kingdom", "empire", "war", "independence", "வரலாறு", "நாகரிகம்", "பேரரசு"}},
		{"Geography", []string{"geography", "continent", "country", "river", "mountain", "climate", "map", "ocean", "region", "புவியியல்", "கண்டம்", "நாடு"}},
		{"Civics", []string{"government", "democracy", "constitution", "rights", "citizen", "parliament", "election", "law", "அரசாங்கம்", "ஜனநாயகம்"}},
	},
}

// DetectSubSubject refines the default sub-subject by counting content
// keyword hits. The first family in declaration order wins ties.
func DetectSubSubject(text string, subject models.Subject) string {
	families, ok := subSubjectKeywords[subject]
	if !ok {
		return defaultSubSubject(subject)
	}

	lower := strings.ToLower(text)
	bestName := ""
	bestCount := 0
	for _, family := range families {
		count := 0
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestName = family.name
		}
	}
	if bestName == "" {
		return defaultSubSubject(subject)
	}
	return bestName
}

// DetectContentType tags a chunk as exercise, example, definition,
// formula, or theory based on its wording.
func DetectContentType(text string) models.ContentType {
	lower := strings.ToLower(text)
	for _, kw := range models.ExerciseKeywords {
		if strings.Contains(lower, kw) {
			return models.ContentExercise
		}
	}
	for _, kw := range models.ExampleKeywords {
		if strings.Contains(lower, kw) {
			return models.ContentExample
		}
	}
	for _, kw := range models.DefinitionKeywords {
		if strings.Contains(lower, kw) {
			return models.ContentDefinition
		}
	}
	for _, kw := range models.FormulaKeywords {
		if strings.Contains(lower, kw) {
			return models.ContentFormula
		}
	}
	if strings.Contains(text, "=") {
		return models.ContentFormula
	}
	return models.ContentTheory
}

var (
	chapterRe = regexp.MustCompile(`(?i)(?:Chapter|Unit|அலகு)\s*(\d+)\s*[:\-]?\s*(.+)`)
	topicRe   = regexp.MustCompile(`(?m)^(\d+\.\d+)\s+(.+)$`)
)

// DetectChapterTopic scans a page for chapter and section headings.
func DetectChapterTopic(text string) (chapter, topic string) {
	if m := chapterRe.FindStringSubmatch(text); m != nil {
		title := strings.TrimSpace(m[2])
		if idx := strings.IndexByte(title, '\n'); idx >= 0 {
			title = strings.TrimSpace(title[:idx])
		}
		chapter = "Chapter " + m[1] + ": " + title
	}
	if m := topicRe.FindStringSubmatch(text); m != nil {
		topic = strings.TrimSpace(m[0])
		if len(topic) > 100 {
			topic = topic[:100]
		}
	}
	return chapter, topic
}
