package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at one model on the local inference endpoint.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// RAGConfig tunes retrieval and ingestion.
type RAGConfig struct {
	StoreDir        string `yaml:"store_dir"`
	TopK            int    `yaml:"top_k"`
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	MaxEmbedChars   int    `yaml:"max_embed_chars"`
	MaxContextChars int    `yaml:"max_context_chars"`
}

type Config struct {
	EmbedLLM LLMConfig `yaml:"embed_llm"`
	GenLLM   LLMConfig `yaml:"gen_llm"`
	RAG      RAGConfig `yaml:"rag"`
}

// LoadConfig reads a YAML config. A missing file yields the defaults so
// a stock Ollama install works with no config at all.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "mxbai-embed-large"
	}
	if cfg.EmbedLLM.TimeoutSecs == 0 {
		cfg.EmbedLLM.TimeoutSecs = 30
	}
	if cfg.GenLLM.BaseURL == "" {
		cfg.GenLLM.BaseURL = cfg.EmbedLLM.BaseURL
	}
	if cfg.GenLLM.Model == "" {
		cfg.GenLLM.Model = "llama3.2"
	}
	if cfg.GenLLM.TimeoutSecs == 0 {
		cfg.GenLLM.TimeoutSecs = 60
	}
	if cfg.GenLLM.MaxRetries == 0 {
		cfg.GenLLM.MaxRetries = 1
	}
	if cfg.RAG.StoreDir == "" {
		cfg.RAG.StoreDir = "./vector_stores"
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 100
	}
	if cfg.RAG.MaxEmbedChars == 0 {
		cfg.RAG.MaxEmbedChars = 500
	}
	if cfg.RAG.MaxContextChars == 0 {
		cfg.RAG.MaxContextChars = 4000
	}
}
