package immodiag

import "context"

// ReviewRequest asks for a free-text expert review of a listing.
type ReviewRequest struct {
	URL string

	// Context is the grounding block embedded verbatim in the prompt.
	Context string
}

// Improvement is one recommended renovation with its expected effect.
type Improvement struct {
	Action    string  `json:"action"`
	ImpactDPE *string `json:"impact_dpe"`
	Gain      *string `json:"gain"`
}

// Diagnosis is a buyer-side assessment of a listing form.
type Diagnosis struct {
	Strengths    []string      `json:"forts"`
	Warnings     []string      `json:"vigilances"`
	Improvements []Improvement `json:"ameliorations"`
}

// Diagnosis limits.
const (
	MaxDiagnosisItems     = 6
	DiagnosisImprovements = 2
)

// Analyst generates reports with a language model.
type Analyst interface {
	// Review returns a free-text expert review of a listing.
	Review(ctx context.Context, req ReviewRequest) (string, error)

	// Diagnose assesses listing form data.
	// Returns EINTERNAL if the model answer is not usable.
	Diagnose(ctx context.Context, form map[string]any) (*Diagnosis, error)

	// Name identifies the model provider.
	Name() string
}
