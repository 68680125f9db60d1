package prompt

import (
	"fmt"
	"strings"

	"school-tutor-rag/internal/models"
)

// Assembler builds generation requests. Construction is deterministic
// string concatenation: identical inputs always yield identical
// prompts, and the only branching is the general/math variant split and
// the response language.
type Assembler struct {
	maxContextChars int
}

func NewAssembler(maxContextChars int) *Assembler {
	if maxContextChars <= 0 {
		maxContextChars = 4000
	}
	return &Assembler{maxContextChars: maxContextChars}
}

// Assemble merges the retrieved passages, the variant's schema
// instruction, and the response-language directive into one request.
func (a *Assembler) Assemble(q models.Query, rc models.RetrievedContext) string {
	directive := models.EnglishDirective
	if q.Language == models.LanguageTamil {
		directive = models.TamilDirective
	}

	template := models.GeneralPromptTemplate
	if q.Variant() == models.VariantMath {
		template = models.MathPromptTemplate
	}

	var b strings.Builder
	b.WriteString(directive)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf(template, a.buildContext(rc), q.RawText))
	b.WriteString("\n\nREMINDER: ")
	b.WriteString(directive)
	return b.String()
}

// AssembleRepair amends a prompt with the offending raw output and a
// corrective instruction for the single repair attempt.
func (a *Assembler) AssembleRepair(basePrompt, rawOutput, reason string) string {
	return fmt.Sprintf(models.RepairPromptTemplate, basePrompt, reason, rawOutput)
}

// buildContext concatenates retrieved passages with source attribution,
// capped at the context budget. An empty retrieval degrades to an
// explicit no-context note so the request still produces a schema-valid
// answer.
func (a *Assembler) buildContext(rc models.RetrievedContext) string {
	if len(rc) == 0 {
		return models.NoContextNote
	}

	var b strings.Builder
	for _, sc := range rc {
		meta := sc.Chunk.Metadata
		topic := meta.Topic
		if topic == "" {
			topic = "General"
		}
		source := meta.SourceFile
		if source == "" {
			source = "Unknown"
		}
		passage := fmt.Sprintf("[Source: %s - %s]\n%s\n\n", source, topic, sc.Chunk.Text)
		if b.Len()+len(passage) > a.maxContextChars {
			break
		}
		b.WriteString(passage)
	}
	if b.Len() == 0 {
		return models.NoContextNote
	}
	return b.String()
}
