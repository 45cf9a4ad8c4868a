// Package gemini implements immodiag.Analyst and immodiag.TokenCounter
// with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/gjson"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Analyst implements immodiag.Analyst at compile time.
var _ immodiag.Analyst = (*Analyst)(nil)

// Analyst implements immodiag.Analyst using Google Gemini.
type Analyst struct {
	client *genai.Client
	model  string
}

// NewAnalyst creates a new Analyst. An empty model selects DefaultModel.
func NewAnalyst(client *genai.Client, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{client: client, model: model}
}

// Name identifies the provider.
func (a *Analyst) Name() string {
	return "gemini"
}

// Review returns a free-text review grounded on req.Context.
func (a *Analyst) Review(ctx context.Context, req immodiag.ReviewRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	out, err := a.generate(ctx, immodiag.BuildReviewPrompt(req), BuildReviewConfig())
	if err != nil {
		return "", err
	}
	if out == "" {
		return immodiag.NoReviewAnswer, nil
	}
	return out, nil
}

// Diagnose asks for a JSON diagnosis of form.
func (a *Analyst) Diagnose(ctx context.Context, form map[string]any) (*immodiag.Diagnosis, error) {
	prompt, err := immodiag.BuildDiagnosisPrompt(form)
	if err != nil {
		return nil, err
	}

	out, err := a.generate(ctx, prompt, BuildDiagnosisConfig())
	if err != nil {
		return nil, err
	}
	return gjson.ParseDiagnosis(out)
}

func (a *Analyst) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", immodiag.Errorf(immodiag.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildReviewConfig returns the GenerateContentConfig for listing reviews.
func BuildReviewConfig() *genai.GenerateContentConfig {
	temp := float32(immodiag.ReviewTemperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: immodiag.ReviewPersona}},
		},
		Temperature: &temp,
	}
}

// BuildDiagnosisConfig returns the GenerateContentConfig for diagnoses,
// which must be answered in JSON.
func BuildDiagnosisConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: immodiag.DiagnosisPersona}},
		},
		ResponseMIMEType: "application/json",
	}
}
