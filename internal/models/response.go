package models

import "encoding/json"

type Variant string

const (
	VariantGeneral Variant = "general"
	VariantMath    Variant = "math"
)

// ResponseMeta is attached to every response under "_metadata".
type ResponseMeta struct {
	Subject            Subject  `json:"subject"`
	Language           Language `json:"language"`
	IsMathProblem      bool     `json:"is_math_problem"`
	DocumentsRetrieved int      `json:"documents_retrieved"`
}

type BulletPoint struct {
	Point string `json:"point"`
}

type TableRow struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type Table struct {
	Header string     `json:"header"`
	Rows   []TableRow `json:"rows"`
}

// GeneralResponse is the prose-style answer used for every subject
// except Maths.
type GeneralResponse struct {
	Summary      string        `json:"summary"`
	Caption      string        `json:"caption"`
	BulletPoints []BulletPoint `json:"bullet_points"`
	Table        []Table       `json:"table"`
	Meta         ResponseMeta  `json:"_metadata"`
}

type SolutionStep struct {
	StepNumber  int    `json:"step_number"`
	Action      string `json:"action"`
	Explanation string `json:"explanation"`
	Expression  string `json:"expression"`
	Result      string `json:"result"`
}

// MathResponse is the step-by-step answer used for Maths.
type MathResponse struct {
	Problem     string         `json:"problem"`
	Caption     string         `json:"caption"`
	Steps       []SolutionStep `json:"steps"`
	FinalAnswer string         `json:"final_answer"`
	ConceptUsed []string       `json:"concept_used"`
	Tips        []string       `json:"tips"`
	Meta        ResponseMeta   `json:"_metadata"`
}

// Response is the tagged union of the two answer variants. Exactly one
// of General or Math is set, matching Variant.
type Response struct {
	Variant Variant
	General *GeneralResponse
	Math    *MathResponse
}

// MarshalJSON serializes the active variant directly, so the wire shape
// is one of the two schemas with no envelope.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Variant == VariantMath {
		return json.Marshal(r.Math)
	}
	return json.Marshal(r.General)
}
