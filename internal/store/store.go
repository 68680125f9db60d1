package store

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/models"
)

const compress = false

// Store holds one chromem-go collection per subject, all backed by a
// single persistent database directory. Collections are opened once and
// treated as read-only at query time; chromem-go reads are safe for
// concurrent queries. Ingestion is the only writer and runs as a
// separate maintenance operation.
type Store struct {
	db          *chromem.DB
	collections map[models.Subject]*chromem.Collection
}

// Open loads (or creates) the per-subject collections under dir.
func Open(dir string) (*Store, error) {
	db, err := chromem.NewPersistentDB(dir, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", dir, err)
	}

	s := &Store{
		db:          db,
		collections: make(map[models.Subject]*chromem.Collection, len(models.AllSubjects)),
	}
	for _, subject := range models.AllSubjects {
		c, err := db.GetOrCreateCollection(collectionName(subject), nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to open collection for %s: %w", subject, err)
		}
		s.collections[subject] = c
		log.Debug().Str("subject", string(subject)).Int("vectors", c.Count()).Msg("Opened subject index")
	}
	return s, nil
}

func collectionName(subject models.Subject) string {
	return strings.ToLower(string(subject)) + "_index"
}

// Count returns the number of vectors in a subject index.
func (s *Store) Count(subject models.Subject) int {
	c, ok := s.collections[subject]
	if !ok {
		return 0
	}
	return c.Count()
}

// Query runs nearest-neighbor search against one subject index only.
// n is clamped to the collection size; an empty collection yields an
// empty result, not an error.
func (s *Store) Query(ctx context.Context, subject models.Subject, embedding []float32, n int) ([]chromem.Result, error) {
	c, ok := s.collections[subject]
	if !ok {
		return nil, fmt.Errorf("no index for subject %s", subject)
	}
	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if n > count {
		n = count
	}
	results, err := c.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s index: %w", subject, err)
	}
	return results, nil
}

// Add writes documents into a subject index. Ingestion only.
func (s *Store) Add(ctx context.Context, subject models.Subject, docs []chromem.Document) error {
	c, ok := s.collections[subject]
	if !ok {
		return fmt.Errorf("no index for subject %s", subject)
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents to %s index: %w", subject, err)
	}
	return nil
}

// Reset drops and recreates a subject collection before re-ingestion.
func (s *Store) Reset(subject models.Subject) error {
	name := collectionName(subject)
	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	c, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection %s: %w", name, err)
	}
	s.collections[subject] = c
	return nil
}

// Stats reports vector counts per subject.
func (s *Store) Stats() map[models.Subject]int {
	stats := make(map[models.Subject]int, len(s.collections))
	for subject, c := range s.collections {
		stats[subject] = c.Count()
	}
	return stats
}
