package helper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenerateUUID returns a random identifier for an ingested chunk.
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate chunk id: %w", err)
	}
	return id.String(), nil
}

// PrettyPrint renders a value as indented JSON on stdout. Used by the
// CLI to emit the final response; anything unserializable is logged and
// nothing is printed.
func PrettyPrint(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render value as JSON")
		return
	}
	fmt.Println(string(b))
}
