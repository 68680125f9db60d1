package output

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"school-tutor-rag/internal/models"
)

var (
	thinkRe = regexp.MustCompile(models.ThinkTag)
	fenceRe = regexp.MustCompile(models.JSONFence)
)

// ValidationError describes why raw output failed validation. Its
// Reason feeds the corrective instruction of the repair prompt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate parses raw generation output against the expected variant
// and returns a structured response, or a ValidationError explaining
// the failure. It never coerces: a response either conforms or is
// rejected whole.
func Validate(raw string, variant models.Variant) (*models.Response, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	if variant == models.VariantMath {
		math, err := validateMath(payload)
		if err != nil {
			return nil, err
		}
		return &models.Response{Variant: models.VariantMath, Math: math}, nil
	}
	general, err := validateGeneral(payload)
	if err != nil {
		return nil, err
	}
	return &models.Response{Variant: models.VariantGeneral, General: general}, nil
}

// extractJSON isolates the JSON object from model chatter: reasoning
// tags and code fences are stripped, then the outermost braces are
// taken.
func extractJSON(raw string) (string, error) {
	cleaned := thinkRe.ReplaceAllString(raw, "")
	if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return "", invalid("output contains no JSON object")
	}
	return cleaned[start : end+1], nil
}

func validateGeneral(payload string) (*models.GeneralResponse, error) {
	var resp models.GeneralResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, invalid("output is not valid JSON for the general schema: %v", err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return nil, invalid("the required \"summary\" field is missing or empty")
	}
	if strings.TrimSpace(resp.Caption) == "" {
		return nil, invalid("the required \"caption\" field is missing or empty")
	}
	for i, bp := range resp.BulletPoints {
		if strings.TrimSpace(bp.Point) == "" {
			return nil, invalid("bullet_points[%d] is missing its \"point\" field", i)
		}
	}
	for i, table := range resp.Table {
		for j, row := range table.Rows {
			if strings.TrimSpace(row.Property) == "" {
				return nil, invalid("table[%d].rows[%d] is missing its \"property\" field", i, j)
			}
		}
	}
	return &resp, nil
}

func validateMath(payload string) (*models.MathResponse, error) {
	var resp models.MathResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, invalid("output is not valid JSON for the math schema: %v", err)
	}
	if strings.TrimSpace(resp.Problem) == "" {
		return nil, invalid("the required \"problem\" field is missing or empty")
	}
	if strings.TrimSpace(resp.FinalAnswer) == "" {
		return nil, invalid("the required \"final_answer\" field is missing or empty")
	}
	if len(resp.Steps) == 0 {
		return nil, invalid("\"steps\" must contain at least one step when final_answer is present")
	}
	for i, step := range resp.Steps {
		if step.StepNumber != i+1 {
			return nil, invalid("steps must be numbered contiguously from 1: steps[%d].step_number is %d", i, step.StepNumber)
		}
	}
	return &resp, nil
}
