package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/philippgille/chromem-go"

	"school-tutor-rag/internal/classifier"
	"school-tutor-rag/internal/models"
	"school-tutor-rag/internal/prompt"
	"school-tutor-rag/internal/retrieval"
)

const generalAnswer = `{
	"summary": "Alcohols are organic compounds containing a hydroxyl group. They are volatile, flammable liquids.",
	"caption": "Properties of Alcohol",
	"bullet_points": [{"point": "Contains a hydroxyl group"}],
	"table": [{"header": "Properties", "rows": [{"property": "State", "value": "Liquid"}]}]
}`

const mathAnswer = `{
	"problem": "Solve: 2x + 5 = 15",
	"caption": "Solving a Linear Equation",
	"steps": [
		{"step_number": 1, "action": "Subtract 5 from both sides", "explanation": "Isolate the variable term", "expression": "2x = 10", "result": "2x = 10"},
		{"step_number": 2, "action": "Divide both sides by 2", "explanation": "Solve for x", "expression": "x = 10 / 2", "result": "x = 5"}
	],
	"final_answer": "x = 5",
	"concept_used": ["Linear equations"],
	"tips": ["Do the same operation on both sides"]
}`

const tamilAnswer = `{
	"summary": "மது என்பது ஹைட்ராக்சில் தொகுதியைக் கொண்ட கரிமச் சேர்மம் ஆகும்.",
	"caption": "மதுவின் பண்புகள்",
	"bullet_points": [{"point": "எளிதில் தீப்பற்றும்"}],
	"table": []
}`

// fakeGen dispatches on prompt content and records every prompt it saw.
type fakeGen struct {
	fn      func(prompt string) (string, error)
	prompts []string
}

func (g *fakeGen) Generate(ctx context.Context, p string) (string, error) {
	g.prompts = append(g.prompts, p)
	return g.fn(p)
}

func isClassifyPrompt(p string) bool {
	return strings.Contains(p, "Classify the following student question")
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type fakeIndex struct {
	results map[models.Subject][]chromem.Result
	queried []models.Subject
}

func (f *fakeIndex) Query(ctx context.Context, subject models.Subject, embedding []float32, n int) ([]chromem.Result, error) {
	f.queried = append(f.queried, subject)
	res := f.results[subject]
	if n > len(res) {
		n = len(res)
	}
	return res[:n], nil
}

func (f *fakeIndex) Count(subject models.Subject) int { return len(f.results[subject]) }

func chunkFor(subject models.Subject, id, text string) chromem.Result {
	meta := models.ChunkMetadata{Subject: subject, ContentType: models.ContentTheory, Language: models.LanguageEnglish, SourceFile: "book.pdf"}
	return chromem.Result{ID: id, Content: text, Metadata: meta.Map(), Similarity: 0.9}
}

func newPipeline(idx *fakeIndex, gen *fakeGen) *Pipeline {
	return NewPipeline(
		classifier.New(gen),
		retrieval.NewRetriever(idx, fakeEmbedder{}, 5),
		prompt.NewAssembler(4000),
		gen,
	)
}

func TestAnswerGeneralScenario(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{
		models.SubjectScience: {chunkFor(models.SubjectScience, "c1", "Alcohols contain a hydroxyl group.")},
	}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		return generalAnswer, nil
	}}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "What are the properties of alcohol?")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Variant != models.VariantGeneral || resp.General == nil {
		t.Fatal("expected the general variant")
	}
	if resp.General.Summary == "" {
		t.Fatal("summary is empty")
	}
	if resp.General.Meta.Subject != models.SubjectScience {
		t.Fatalf("_metadata.subject = %s, want Science", resp.General.Meta.Subject)
	}
	if resp.General.Meta.Language != models.LanguageEnglish {
		t.Fatalf("_metadata.language = %s, want English", resp.General.Meta.Language)
	}
	if resp.General.Meta.DocumentsRetrieved != 1 {
		t.Fatalf("documents_retrieved = %d", resp.General.Meta.DocumentsRetrieved)
	}
	for _, s := range idx.queried {
		if s != models.SubjectScience {
			t.Fatalf("retrieval touched the %s index", s)
		}
	}
}

func TestAnswerMathScenario(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{
		models.SubjectMaths: {chunkFor(models.SubjectMaths, "m1", "To solve a linear equation, isolate the variable.")},
	}}
	gen := &fakeGen{fn: func(p string) (string, error) { return mathAnswer, nil }}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "Solve: 2x + 5 = 15")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Variant != models.VariantMath || resp.Math == nil {
		t.Fatal("math subject must produce the math variant")
	}
	if resp.Math.FinalAnswer != "x = 5" {
		t.Fatalf("final_answer = %q", resp.Math.FinalAnswer)
	}
	if len(resp.Math.Steps) != 2 || resp.Math.Steps[0].StepNumber != 1 || resp.Math.Steps[1].StepNumber != 2 {
		t.Fatalf("unexpected steps: %+v", resp.Math.Steps)
	}
	if !resp.Math.Meta.IsMathProblem {
		t.Fatal("is_math_problem not set")
	}
}

func TestAnswerTamilScenario(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{
		models.SubjectScience: {chunkFor(models.SubjectScience, "c1", "Alcohols contain a hydroxyl group.")},
	}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		if !strings.Contains(p, "ONLY in Tamil") {
			return "", fmt.Errorf("prompt missing Tamil directive")
		}
		return tamilAnswer, nil
	}}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "மது பற்றிய பண்புகள் என்ன?")
	if err != nil {
		t.Fatal(err)
	}
	if resp.General.Meta.Language != models.LanguageTamil {
		t.Fatalf("_metadata.language = %s, want Tamil", resp.General.Meta.Language)
	}
	if !strings.Contains(resp.General.Summary, "மது") {
		t.Fatalf("summary not in Tamil: %q", resp.General.Summary)
	}
}

func TestAnswerEmptyCorpusStillValid(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		if !strings.Contains(p, models.NoContextNote) {
			return "", fmt.Errorf("prompt missing the no-context note")
		}
		return generalAnswer, nil
	}}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "What is photosynthesis?")
	if err != nil {
		t.Fatalf("empty corpus must not fail the request: %v", err)
	}
	if resp.General.Meta.DocumentsRetrieved != 0 {
		t.Fatalf("documents_retrieved = %d, want 0", resp.General.Meta.DocumentsRetrieved)
	}
}

func TestAnswerRepairRecovers(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{}}
	answers := 0
	gen := &fakeGen{}
	gen.fn = func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		answers++
		if answers == 1 {
			return "I think the answer is probably alcohol related.", nil
		}
		if !strings.Contains(p, "previous output was invalid") && !strings.Contains(p, "Your previous output was invalid") {
			return "", fmt.Errorf("repair prompt missing corrective instruction")
		}
		return generalAnswer, nil
	}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "What is photosynthesis?")
	if err != nil {
		t.Fatal(err)
	}
	if answers != 2 {
		t.Fatalf("generation called %d times for answers, want 2", answers)
	}
	if resp.General == nil {
		t.Fatal("repair did not produce a response")
	}
}

func TestAnswerMalformedTwiceFails(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{}}
	answers := 0
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		answers++
		return "not json at all", nil
	}}

	resp, err := newPipeline(idx, gen).Answer(context.Background(), "What is photosynthesis?")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("err = %v, want ErrMalformedOutput", err)
	}
	if resp != nil {
		t.Fatalf("partial response returned: %+v", resp)
	}
	if answers != 2 {
		t.Fatalf("answer generation attempted %d times, want exactly 2", answers)
	}
}

func TestAnswerAsSkipsClassification(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{
		models.SubjectEnglish: {chunkFor(models.SubjectEnglish, "e1", "A noun names a person, place, or thing.")},
	}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "", fmt.Errorf("classification must not run with a fixed subject")
		}
		return generalAnswer, nil
	}}

	resp, err := newPipeline(idx, gen).AnswerAs(context.Background(), "What is a noun?", models.SubjectEnglish)
	if err != nil {
		t.Fatal(err)
	}
	if resp.General.Meta.Subject != models.SubjectEnglish {
		t.Fatalf("_metadata.subject = %s, want English", resp.General.Meta.Subject)
	}
	for _, s := range idx.queried {
		if s != models.SubjectEnglish {
			t.Fatalf("retrieval touched the %s index", s)
		}
	}
}

func TestAnswerUnclassifiableQuery(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		return "", fmt.Errorf("service down")
	}}

	_, err := newPipeline(idx, gen).Answer(context.Background(), "zzz qqq")
	if !errors.Is(err, ErrUnclassifiableQuery) {
		t.Fatalf("err = %v, want ErrUnclassifiableQuery", err)
	}
}

func TestAnswerGenerationUnavailable(t *testing.T) {
	idx := &fakeIndex{results: map[models.Subject][]chromem.Result{}}
	gen := &fakeGen{fn: func(p string) (string, error) {
		if isClassifyPrompt(p) {
			return "Science", nil
		}
		return "", fmt.Errorf("connection refused")
	}}

	_, err := newPipeline(idx, gen).Answer(context.Background(), "What is photosynthesis?")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("err = %v, want ErrGenerationUnavailable", err)
	}
}
