package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"school-tutor-rag/internal/classifier"
	"school-tutor-rag/internal/config"
	"school-tutor-rag/internal/embedding"
	"school-tutor-rag/internal/helper"
	"school-tutor-rag/internal/ingest"
	"school-tutor-rag/internal/llmservice"
	"school-tutor-rag/internal/models"
	"school-tutor-rag/internal/prompt"
	"school-tutor-rag/internal/rag"
	"school-tutor-rag/internal/retrieval"
	"school-tutor-rag/internal/store"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	dataDir := flag.String("ingest", "", "Directory of curriculum files to (re)index")
	query := flag.String("query", "", "Student question to answer")
	subject := flag.String("subject", "", "Skip classification and answer within this subject")
	flag.Parse()

	if *dataDir == "" && *query == "" {
		log.Fatal().Msg("Provide a data directory with -ingest or a question with -query")
	}

	// A .env next to the binary can override the endpoint without
	// touching the config file.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		cfg.EmbedLLM.BaseURL = baseURL
		cfg.GenLLM.BaseURL = baseURL
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	if *dataDir != "" {
		runIngest(context.Background(), cfg, *dataDir)
		return
	}

	override := models.SubjectUnclassified
	if *subject != "" {
		s, ok := models.ParseSubject(*subject)
		if !ok {
			log.Fatal().Str("subject", *subject).Msg("Unknown subject, expected one of Science, Maths, English, Social_Science, Tamil")
		}
		override = s
	}
	runQuery(context.Background(), cfg, *query, override)
}

func runIngest(ctx context.Context, cfg *config.Config, dataDir string) {
	s, err := store.Open(cfg.RAG.StoreDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	start := time.Now()
	stats, err := ingest.NewIngestor(s, embedder, &cfg.RAG).IngestDirectory(ctx, dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
	counts := s.Stats()
	for _, subject := range models.AllSubjects {
		log.Info().
			Str("subject", string(subject)).
			Int("ingested", stats[subject]).
			Int("vectors", counts[subject]).
			Msg("Index status")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("Ingestion complete")
}

func runQuery(ctx context.Context, cfg *config.Config, query string, subject models.Subject) {
	s, err := store.Open(cfg.RAG.StoreDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	gen, err := llmservice.NewOllamaGenerator(&cfg.GenLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generator")
	}

	pipeline := rag.NewPipeline(
		classifier.New(gen),
		retrieval.NewRetriever(s, embedder, cfg.RAG.TopK),
		prompt.NewAssembler(cfg.RAG.MaxContextChars),
		gen,
	)

	var resp *models.Response
	if subject != models.SubjectUnclassified {
		resp, err = pipeline.AnswerAs(ctx, query, subject)
	} else {
		resp, err = pipeline.Answer(ctx, query)
	}
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrUnclassifiableQuery):
			log.Fatal().Err(err).Msg("Could not classify the question, please rephrase")
		case errors.Is(err, rag.ErrGenerationUnavailable):
			log.Fatal().Err(err).Msg("Is Ollama running? Check the endpoint in the config")
		default:
			log.Fatal().Err(err).Msg("Failed to answer the question")
		}
	}
	helper.PrettyPrint(resp)
}
