package ingest

import (
	"testing"

	"school-tutor-rag/internal/models"
)

func TestMetadataFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		subject  models.Subject
		grade    string
		term     string
		language models.Language
	}{
		{"7th_Science_Term_II_EM.pdf", models.SubjectScience, "7", "2", models.LanguageEnglish},
		{"7th_Social_Science_Term_I_EM.pdf", models.SubjectSocialScience, "7", "1", models.LanguageEnglish},
		{"8th_Maths_Term_III_TM.pdf", models.SubjectMaths, "8", "3", models.LanguageTamil},
		{"7th_English_Term_1.docx", models.SubjectEnglish, "7", "1", models.LanguageEnglish},
		{"7th_Tamil.pdf", models.SubjectTamil, "7", "", models.LanguageTamil},
		{"10_Science_notes.md", models.SubjectScience, "10", "", models.LanguageEnglish},
		{"random_notes.txt", models.SubjectUnclassified, "7", "", models.LanguageEnglish},
	}
	for _, tt := range tests {
		meta := MetadataFromFilename(tt.filename)
		if meta.Subject != tt.subject {
			t.Errorf("%s: subject = %s, want %s", tt.filename, meta.Subject, tt.subject)
		}
		if meta.Grade != tt.grade {
			t.Errorf("%s: grade = %s, want %s", tt.filename, meta.Grade, tt.grade)
		}
		if meta.Term != tt.term {
			t.Errorf("%s: term = %q, want %q", tt.filename, meta.Term, tt.term)
		}
		if meta.Language != tt.language {
			t.Errorf("%s: language = %s, want %s", tt.filename, meta.Language, tt.language)
		}
		if meta.SourceFile != tt.filename {
			t.Errorf("%s: source_file = %s", tt.filename, meta.SourceFile)
		}
	}
}

func TestDetectSubSubject(t *testing.T) {
	tests := []struct {
		text    string
		subject models.Subject
		want    string
	}{
		{"The force acting on a body changes its motion and energy.", models.SubjectScience, "Physics"},
		{"An atom is the smallest unit of an element in a chemical reaction.", models.SubjectScience, "Chemistry"},
		{"Photosynthesis happens inside the cell of a plant.", models.SubjectScience, "Biology"},
		{"Solve the linear equation for the variable x.", models.SubjectMaths, "Algebra"},
		{"Find the area of the triangle with the given angle.", models.SubjectMaths, "Geometry"},
		{"The Chola empire ruled over an ancient kingdom.", models.SubjectSocialScience, "History"},
		{"Nothing subject specific here.", models.SubjectScience, "General Science"},
		{"Reading comprehension passage.", models.SubjectEnglish, "English Language"},
	}
	for _, tt := range tests {
		if got := DetectSubSubject(tt.text, tt.subject); got != tt.want {
			t.Errorf("DetectSubSubject(%q, %s) = %s, want %s", tt.text, tt.subject, got, tt.want)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		text string
		want models.ContentType
	}{
		{"Exercise 4.2: Answer the following questions.", models.ContentExercise},
		{"Example: consider a beaker of water at room temperature.", models.ContentExample},
		{"Photosynthesis is defined as the process by which plants make food.", models.ContentDefinition},
		{"The formula for the area of a circle is used widely.", models.ContentFormula},
		{"Speed = distance / time", models.ContentFormula},
		{"Plants grow towards sunlight over several days.", models.ContentTheory},
	}
	for _, tt := range tests {
		if got := DetectContentType(tt.text); got != tt.want {
			t.Errorf("DetectContentType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestDetectChapterTopic(t *testing.T) {
	text := "Chapter 3: Matter Around Us\nSome intro prose.\n3.1 States of Matter\nSolids keep their shape."
	chapter, topic := DetectChapterTopic(text)
	if chapter != "Chapter 3: Matter Around Us" {
		t.Errorf("chapter = %q", chapter)
	}
	if topic != "3.1 States of Matter" {
		t.Errorf("topic = %q", topic)
	}

	chapter, topic = DetectChapterTopic("plain prose with no headings at all")
	if chapter != "" || topic != "" {
		t.Errorf("expected no headings, got %q / %q", chapter, topic)
	}
}
