// Package openai implements immodiag.Analyst on the OpenAI chat
// completions API.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/gjson"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Ensure Analyst implements immodiag.Analyst at compile time.
var _ immodiag.Analyst = (*Analyst)(nil)

// Analyst implements immodiag.Analyst using OpenAI chat completions.
type Analyst struct {
	client openai.Client
	model  string
}

// NewClient returns an OpenAI client for apiKey. A non-empty baseURL
// targets a compatible endpoint.
func NewClient(apiKey, baseURL string, opts ...option.RequestOption) openai.Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(opts...)
}

// NewAnalyst creates a new Analyst. An empty model selects DefaultModel.
func NewAnalyst(client openai.Client, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{client: client, model: model}
}

// Name identifies the provider.
func (a *Analyst) Name() string {
	return "openai"
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
	return gjson.ParseDiagnosis(out)
}

func (a *Analyst) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildReviewParams returns the completion request for a listing review.
func BuildReviewParams(model string, req immodiag.ReviewRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(immodiag.ReviewPersona),
			openai.UserMessage(immodiag.BuildReviewPrompt(req)),
		},
		Temperature: openai.Float(immodiag.ReviewTemperature),
	}
}

// BuildDiagnosisParams returns the JSON-mode completion request for a
// diagnosis of form.
func BuildDiagnosisParams(model string, form map[string]any) (openai.ChatCompletionNewParams, error) {
	prompt, err := immodiag.BuildDiagnosisPrompt(form)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(immodiag.DiagnosisPersona),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}, nil
}
