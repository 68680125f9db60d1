package classifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/llmservice"
	"school-tutor-rag/internal/models"
)

// Result is the outcome of classifying one query.
type Result struct {
	Subject       models.Subject
	Confidence    float64
	ContentHint   models.ContentType
	IsMathProblem bool
	UsedFallback  bool
}

// Classifier routes queries to a subject using keyword lexicon scoring,
// with a generation-service fallback when the lexicon gives no usable
// signal. The fallback is isolated behind the Generator interface so
// tests can run it deterministically.
type Classifier struct {
	gen             llmservice.Generator
	mathPatterns    []*regexp.Regexp
	sciencePatterns []*regexp.Regexp
	thinkRe         *regexp.Regexp
}

func New(gen llmservice.Generator) *Classifier {
	c := &Classifier{
		gen:     gen,
		thinkRe: regexp.MustCompile(models.ThinkTag),
	}
	for _, p := range models.MathProblemPatterns {
		c.mathPatterns = append(c.mathPatterns, regexp.MustCompile(p))
	}
	for _, p := range models.SciencePatterns {
		c.sciencePatterns = append(c.sciencePatterns, regexp.MustCompile(p))
	}
	return c
}

// Classify determines subject and content-type hint for a normalized
// (language-stripped) query. It never returns an error: when no subject
// can be determined even via the fallback, the result carries the
// unclassified sentinel and the caller fails the request.
func (c *Classifier) Classify(ctx context.Context, query string) Result {
	lower := strings.ToLower(query)
	hint := c.contentHint(lower)

	// A solvable math problem always routes to Maths, regardless of
	// lexicon scores.
	if c.isMathProblem(lower) {
		return Result{Subject: models.SubjectMaths, Confidence: 0.8, ContentHint: hint, IsMathProblem: true}
	}

	scores, total := c.lexiconScores(lower)
	best, leaders := topSubjects(scores)

	if best > 0 && len(leaders) == 1 {
		return Result{
			Subject:     leaders[0],
			Confidence:  float64(best) / float64(total),
			ContentHint: hint,
		}
	}

	if best == 0 {
		for _, re := range c.sciencePatterns {
			if re.MatchString(lower) {
				return Result{Subject: models.SubjectScience, Confidence: 0.6, ContentHint: hint}
			}
		}
	}

	// Lexicon is tied or silent: ask the generation service for exactly
	// one of the five labels.
	if subject, err := c.fallback(ctx, query); err == nil {
		return Result{Subject: subject, Confidence: 0.5, ContentHint: hint, UsedFallback: true}
	} else {
		log.Warn().Err(err).Str("query", query).Msg("Classification fallback failed")
	}

	// Fallback unavailable. A tie between scored subjects still resolves
	// deterministically by priority; a silent lexicon fails closed.
	if best > 0 {
		return Result{
			Subject:     leaders[0],
			Confidence:  float64(best) / float64(total),
			ContentHint: hint,
		}
	}
	return Result{Subject: models.SubjectUnclassified, ContentHint: hint}
}

// Heuristics computes the content hint and math-problem flag without
// routing to a subject. Used when the caller fixes the subject itself.
func (c *Classifier) Heuristics(query string) (models.ContentType, bool) {
	lower := strings.ToLower(query)
	return c.contentHint(lower), c.isMathProblem(lower)
}

// lexiconScores counts keyword hits per subject.
func (c *Classifier) lexiconScores(lower string) (map[models.Subject]int, int) {
	scores := make(map[models.Subject]int, len(models.AllSubjects))
	total := 0
	for subject, keywords := range models.SubjectKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				scores[subject]++
				total++
			}
		}
	}
	return scores, total
}

// topSubjects returns the best score and every subject holding it, in
// fixed priority order so ties resolve the same way every time.
func topSubjects(scores map[models.Subject]int) (int, []models.Subject) {
	best := 0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	var leaders []models.Subject
	for _, subject := range models.SubjectPriority {
		if scores[subject] == best {
			leaders = append(leaders, subject)
		}
	}
	return best, leaders
}

func (c *Classifier) isMathProblem(lower string) bool {
	for _, re := range c.mathPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (c *Classifier) contentHint(lower string) models.ContentType {
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
	for _, kw := range models.TheoryKeywords {
		if strings.Contains(lower, kw) {
			return models.ContentTheory
		}
	}
	return models.ContentUnknown
}

// fallback asks the generation service for a subject label and accepts
// only one of the five.
func (c *Classifier) fallback(ctx context.Context, query string) (models.Subject, error) {
	if c.gen == nil {
		return models.SubjectUnclassified, fmt.Errorf("no generator configured")
	}
	out, err := c.gen.Generate(ctx, fmt.Sprintf(models.ClassifyPromptTemplate, query))
	if err != nil {
		return models.SubjectUnclassified, err
	}
	label := c.thinkRe.ReplaceAllString(out, "")
	label = strings.TrimSpace(label)
	if idx := strings.IndexByte(label, '\n'); idx >= 0 {
		label = label[:idx]
	}
	label = strings.Trim(label, " .\"'`")
	canonical := strings.ReplaceAll(strings.ToLower(label), " ", "_")
	for _, subject := range models.AllSubjects {
		if canonical == strings.ToLower(string(subject)) {
			return subject, nil
		}
	}
	return models.SubjectUnclassified, fmt.Errorf("fallback returned unknown label %q", label)
}
