package language

import (
	"testing"

	"school-tutor-rag/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLang models.Language
		wantText string
	}{
		{
			name:     "plain english",
			input:    "What are the properties of alcohol?",
			wantLang: models.LanguageEnglish,
			wantText: "What are the properties of alcohol?",
		},
		{
			name:     "tamil script",
			input:    "மது பற்றிய பண்புகள் என்ன?",
			wantLang: models.LanguageTamil,
			wantText: "மது பற்றிய பண்புகள் என்ன?",
		},
		{
			name:     "mixed text with tamil characters",
			input:    "Explain இயற்பியல் basics",
			wantLang: models.LanguageTamil,
			wantText: "Explain இயற்பியல் basics",
		},
		{
			name:     "in tamil phrase stripped",
			input:    "Explain photosynthesis in tamil",
			wantLang: models.LanguageTamil,
			wantText: "Explain photosynthesis",
		},
		{
			name:     "in tamil phrase case insensitive",
			input:    "Explain photosynthesis IN TAMIL please",
			wantLang: models.LanguageTamil,
			wantText: "Explain photosynthesis please",
		},
		{
			name:     "phrase inside a word does not trigger",
			input:    "Explain tamil grammar",
			wantLang: models.LanguageEnglish,
			wantText: "Explain tamil grammar",
		},
		{
			name:     "phrase straddling a word boundary does not trigger",
			input:    "certain tamil words",
			wantLang: models.LanguageEnglish,
			wantText: "certain tamil words",
		},
		{
			name:     "phrase mid-sentence still stripped",
			input:    "Describe in tamil the water cycle",
			wantLang: models.LanguageTamil,
			wantText: "Describe the water cycle",
		},
		{
			name:     "empty input defaults to english",
			input:    "",
			wantLang: models.LanguageEnglish,
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, text := Detect(tt.input)
			if lang != tt.wantLang {
				t.Errorf("Detect(%q) language = %s, want %s", tt.input, lang, tt.wantLang)
			}
			if text != tt.wantText {
				t.Errorf("Detect(%q) text = %q, want %q", tt.input, text, tt.wantText)
			}
		})
	}
}

func TestContainsTamil(t *testing.T) {
	if ContainsTamil("hello world") {
		t.Error("ContainsTamil returned true for ASCII text")
	}
	if !ContainsTamil("சமன்பாடு") {
		t.Error("ContainsTamil returned false for Tamil text")
	}
}
