package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/config"
	"school-tutor-rag/internal/embedding"
	"school-tutor-rag/internal/helper"
	"school-tutor-rag/internal/models"
	"school-tutor-rag/internal/parser"
	"school-tutor-rag/internal/retrieval"
	"school-tutor-rag/internal/store"
)

const addBatchSize = 100

// Ingestor builds the per-subject indices from a directory of
// curriculum files. It is a maintenance operation, run before the
// query pipeline is served.
type Ingestor struct {
	store    *store.Store
	embedder retrieval.Embedder
	cfg      *config.RAGConfig
}

func NewIngestor(s *store.Store, embedder retrieval.Embedder, cfg *config.RAGConfig) *Ingestor {
	return &Ingestor{store: s, embedder: embedder, cfg: cfg}
}

// IngestDirectory parses, chunks, embeds, and indexes every supported
// file under dir. Subjects that receive files are rebuilt from scratch;
// subjects with no files are left untouched. Returns chunk counts per
// subject.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string) (map[models.Subject]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	bySubject := make(map[models.Subject][]string)
	for _, entry := range entries {
		if entry.IsDir() || !parser.Supported(entry.Name()) {
			continue
		}
		meta := MetadataFromFilename(entry.Name())
		if meta.Subject == models.SubjectUnclassified {
			log.Warn().Str("file", entry.Name()).Msg("Could not determine subject from filename, skipping")
			continue
		}
		bySubject[meta.Subject] = append(bySubject[meta.Subject], entry.Name())
	}
	if len(bySubject) == 0 {
		return nil, fmt.Errorf("no supported curriculum files found in %s", dir)
	}

	stats := make(map[models.Subject]int)
	for _, subject := range models.AllSubjects {
		files, ok := bySubject[subject]
		if !ok {
			continue
		}
		if err := ing.store.Reset(subject); err != nil {
			return nil, err
		}
		for _, name := range files {
			n, err := ing.ingestFile(ctx, subject, filepath.Join(dir, name))
			if err != nil {
				log.Error().Err(err).Str("file", name).Msg("Failed to ingest file")
				continue
			}
			stats[subject] += n
		}
		log.Info().Str("subject", string(subject)).Int("chunks", stats[subject]).Msg("Rebuilt subject index")
	}
	return stats, nil
}

func (ing *Ingestor) ingestFile(ctx context.Context, subject models.Subject, path string) (int, error) {
	fileMeta := MetadataFromFilename(filepath.Base(path))
	sections, err := parser.ParseDocument(path)
	if err != nil {
		return 0, err
	}

	var docs []chromem.Document
	total := 0
	currentChapter := ""
	currentTopic := ""

	for _, section := range sections {
		if chapter, topic := DetectChapterTopic(section.Text); chapter != "" || topic != "" {
			// Headings carry forward until the next one appears.
			if chapter != "" {
				currentChapter = chapter
			}
			if topic != "" {
				currentTopic = topic
			}
		}

		for _, chunk := range ChunkText(section.Text, ing.cfg.ChunkSize, ing.cfg.ChunkOverlap) {
			meta := fileMeta
			meta.Chapter = currentChapter
			meta.Topic = currentTopic
			meta.PageNumber = section.PageNumber
			meta.ContentType = DetectContentType(chunk)
			meta.SubSubject = DetectSubSubject(chunk, subject)

			emb, err := ing.embedder.EmbedQuery(ctx, embedding.Truncate(chunk, ing.cfg.MaxEmbedChars))
			if err != nil {
				return total, fmt.Errorf("failed to embed chunk from %s: %w", path, err)
			}
			id, err := helper.GenerateUUID()
			if err != nil {
				return total, err
			}
			docs = append(docs, chromem.Document{
				ID:        id,
				Content:   chunk,
				Metadata:  meta.Map(),
				Embedding: emb,
			})
			if len(docs) >= addBatchSize {
				if err := ing.store.Add(ctx, subject, docs); err != nil {
					return total, err
				}
				total += len(docs)
				docs = docs[:0]
			}
		}
	}
	if len(docs) > 0 {
		if err := ing.store.Add(ctx, subject, docs); err != nil {
			return total, err
		}
		total += len(docs)
	}
	log.Debug().Str("file", filepath.Base(path)).Int("chunks", total).Msg("Ingested file")
	return total, nil
}
