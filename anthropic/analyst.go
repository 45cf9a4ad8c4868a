// Package anthropic implements immodiag.Analyst on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/gjson"
)

// DefaultModel is used when no model is configured.
const DefaultModel = string(anthropic.ModelClaudeSonnet4_20250514)

// MaxTokens caps every answer.
const MaxTokens = 2048

// jsonPrefill starts the assistant turn so the answer continues a JSON
// object; the API has no JSON response mode.
const jsonPrefill = "{"

// Ensure Analyst implements immodiag.Analyst at compile time.
var _ immodiag.Analyst = (*Analyst)(nil)

// Analyst implements immodiag.Analyst using Claude models.
type Analyst struct {
	client anthropic.Client
	model  string
}

// NewClient returns an Anthropic client for apiKey. A non-empty baseURL
// targets a compatible endpoint.
func NewClient(apiKey, baseURL string, opts ...option.RequestOption) anthropic.Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return anthropic.NewClient(opts...)
}

// NewAnalyst creates a new Analyst. An empty model selects DefaultModel.
func NewAnalyst(client anthropic.Client, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{client: client, model: model}
}

// Name identifies the provider.
func (a *Analyst) Name() string {
	return "anthropic"
}

// Review returns a free-text review grounded on req.Context.
func (a *Analyst) Review(ctx context.Context, req immodiag.ReviewRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	out, err := a.complete(ctx, BuildReviewParams(a.model, req))
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
	params, err := BuildDiagnosisParams(a.model, form)
	if err != nil {
		return nil, err
	}

	out, err := a.complete(ctx, params)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(out, jsonPrefill) {
		out = jsonPrefill + out
	}
	return gjson.ParseDiagnosis(out)
}

func (a *Analyst) complete(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "anthropic: %v", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// BuildReviewParams returns the message request for a listing review.
func BuildReviewParams(model string, req immodiag.ReviewRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: immodiag.ReviewPersona}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(immodiag.BuildReviewPrompt(req))),
		},
		Temperature: anthropic.Float(immodiag.ReviewTemperature),
	}
}

// BuildDiagnosisParams returns the message request for a diagnosis of
// form. The assistant turn is prefilled with the opening brace.
func BuildDiagnosisParams(model string, form map[string]any) (anthropic.MessageNewParams, error) {
	prompt, err := immodiag.BuildDiagnosisPrompt(form)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: immodiag.DiagnosisPersona}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(jsonPrefill)),
		},
	}, nil
}
