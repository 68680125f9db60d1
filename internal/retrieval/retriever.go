package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/models"
)

// Index is the read-only view of the per-subject vector indices. The
// production implementation is *store.Store; tests inject fixtures.
type Index interface {
	Query(ctx context.Context, subject models.Subject, embedding []float32, n int) ([]chromem.Result, error)
	Count(subject models.Subject) int
}

// Embedder turns query text into a vector via the embedding service.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever runs filtered nearest-neighbor search against exactly one
// subject index per query.
type Retriever struct {
	index    Index
	embedder Embedder
	topK     int
}

func NewRetriever(index Index, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = models.DefaultTopK
	}
	return &Retriever{index: index, embedder: embedder, topK: topK}
}

// Retrieve returns up to TOP_K chunks from the filter's subject index,
// descending by cosine similarity, ties kept stable. When the filtered
// subset is empty and the filter carries a content-type constraint, it
// relaxes that constraint once and retries. An empty result is a valid
// outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query models.Query, filter Filter) (models.RetrievedContext, error) {
	// An empty subject index cannot produce candidates; skip the
	// embedding round-trip entirely.
	if r.index.Count(filter.Subject) == 0 {
		log.Debug().Str("subject", string(filter.Subject)).Msg("Subject index is empty, skipping search")
		return nil, nil
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query.Normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rc, err := r.search(ctx, embedding, filter)
	if err != nil {
		return nil, err
	}
	if len(rc) == 0 {
		if relaxed, ok := filter.Relaxed(); ok {
			log.Debug().Str("subject", string(filter.Subject)).Msg("Empty retrieval, relaxing content-type constraint")
			return r.search(ctx, embedding, relaxed)
		}
	}
	return rc, nil
}

func (r *Retriever) search(ctx context.Context, embedding []float32, filter Filter) (models.RetrievedContext, error) {
	// Over-fetch when an optional constraint will thin the candidates
	// after the fact.
	n := r.topK
	if filter.ContentType != models.ContentUnknown {
		n = r.topK * 3
	}

	results, err := r.index.Query(ctx, filter.Subject, embedding, n)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s index: %w", filter.Subject, err)
	}

	var rc models.RetrievedContext
	for _, res := range results {
		meta := models.MetadataFromMap(res.Metadata)
		if !filter.Matches(meta) {
			continue
		}
		rc = append(rc, models.ScoredChunk{
			Chunk: models.Chunk{ID: res.ID, Text: res.Content, Metadata: meta},
			Score: res.Similarity,
		})
	}

	// The index already ranks by similarity; the stable re-sort pins
	// down tie order after filtering.
	sort.SliceStable(rc, func(i, j int) bool { return rc[i].Score > rc[j].Score })
	if len(rc) > r.topK {
		rc = rc[:r.topK]
	}
	return rc, nil
}
