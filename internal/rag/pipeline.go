package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/classifier"
	"school-tutor-rag/internal/language"
	"school-tutor-rag/internal/llmservice"
	"school-tutor-rag/internal/models"
	"school-tutor-rag/internal/output"
	"school-tutor-rag/internal/prompt"
	"school-tutor-rag/internal/retrieval"
)

// Pipeline wires the query-time stages: language detection, subject
// classification, filtered retrieval, prompt assembly, generation, and
// output validation with a single repair attempt. One Pipeline serves
// concurrent requests; all per-request state lives in local values.
type Pipeline struct {
	classifier *classifier.Classifier
	retriever  *retrieval.Retriever
	assembler  *prompt.Assembler
	gen        llmservice.Generator
}

func NewPipeline(c *classifier.Classifier, r *retrieval.Retriever, a *prompt.Assembler, gen llmservice.Generator) *Pipeline {
	return &Pipeline{classifier: c, retriever: r, assembler: a, gen: gen}
}

// Answer processes one query end to end and returns a validated
// structured response, or one of the package error kinds.
func (p *Pipeline) Answer(ctx context.Context, rawQuery string) (*models.Response, error) {
	return p.answer(ctx, rawQuery, models.SubjectUnclassified)
}

// AnswerAs answers with the subject fixed by the caller, skipping
// classification. Content hints and math detection still apply.
func (p *Pipeline) AnswerAs(ctx context.Context, rawQuery string, subject models.Subject) (*models.Response, error) {
	return p.answer(ctx, rawQuery, subject)
}

func (p *Pipeline) answer(ctx context.Context, rawQuery string, override models.Subject) (*models.Response, error) {
	lang, normalized := language.Detect(rawQuery)

	var res classifier.Result
	if override != models.SubjectUnclassified {
		hint, isMath := p.classifier.Heuristics(normalized)
		res = classifier.Result{Subject: override, Confidence: 1, ContentHint: hint, IsMathProblem: isMath}
	} else {
		res = p.classifier.Classify(ctx, normalized)
	}
	if res.Subject == models.SubjectUnclassified {
		return nil, fmt.Errorf("%w: %q", ErrUnclassifiableQuery, rawQuery)
	}
	log.Debug().
		Str("language", string(lang)).
		Str("subject", string(res.Subject)).
		Bool("is_math", res.IsMathProblem).
		Bool("used_fallback", res.UsedFallback).
		Msg("Classified query")

	q := models.Query{
		RawText:       rawQuery,
		Normalized:    normalized,
		Language:      lang,
		Subject:       res.Subject,
		ContentHint:   res.ContentHint,
		IsMathProblem: res.IsMathProblem,
	}

	rc, err := p.retriever.Retrieve(ctx, q, retrieval.BuildFilter(q))
	if err != nil {
		// The embedding request rides the same local endpoint as
		// generation; its failure is the same condition.
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	log.Debug().Int("documents", len(rc)).Msg("Retrieved context")

	basePrompt := p.assembler.Assemble(q, rc)
	raw, err := p.gen.Generate(ctx, basePrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	// Two-attempt validation: accept, or repair once, or fail.
	resp, verr := output.Validate(raw, q.Variant())
	if verr != nil {
		log.Warn().Str("reason", verr.Error()).Msg("Output failed validation, attempting repair")
		repairPrompt := p.assembler.AssembleRepair(basePrompt, raw, verr.Error())
		raw, err = p.gen.Generate(ctx, repairPrompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
		}
		resp, verr = output.Validate(raw, q.Variant())
		if verr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, verr)
		}
	}

	meta := models.ResponseMeta{
		Subject:            q.Subject,
		Language:           q.Language,
		IsMathProblem:      q.IsMathProblem,
		DocumentsRetrieved: len(rc),
	}
	if resp.Variant == models.VariantMath {
		resp.Math.Meta = meta
	} else {
		resp.General.Meta = meta
	}
	return resp, nil
}
