package gemini

import (
	"context"

	"github.com/fwojciec/immodiag"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ immodiag.TokenCounter = (*TokenCounter)(nil)

// TokenizerModel is the local tokenizer used for models the tokenizer
// does not know, including every OpenAI and Anthropic model.
const TokenizerModel = "gemini-2.0-flash"

// TokenCounter estimates the size of the review request built around a
// grounding context, counted with a local Gemini tokenizer.
type TokenCounter struct {
	tok         *tokenizer.LocalTokenizer
	model       string
	approximate bool
}

// NewTokenCounter returns a counter for the analyst model. When the local
// tokenizer does not support model, TokenizerModel is used instead and
// the counter reports itself as approximate.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model != "" {
		if tok, err := tokenizer.NewLocalTokenizer(model); err == nil {
			return &TokenCounter{tok: tok, model: model}, nil
		}
	}
	tok, err := tokenizer.NewLocalTokenizer(TokenizerModel)
	if err != nil {
		return nil, immodiag.Errorf(immodiag.EINTERNAL, "load tokenizer %s: %v", TokenizerModel, err)
	}
	return &TokenCounter{tok: tok, model: TokenizerModel, approximate: model != TokenizerModel}, nil
}

// Model returns the name of the tokenizer model in use.
func (tc *TokenCounter) Model() string { return tc.model }

// Approximate reports whether counts come from a tokenizer other than the
// analyst model's own.
func (tc *TokenCounter) Approximate() bool { return tc.approximate }

// CountTokens counts the tokens of the review request for the grounding
// context text: the review persona as system instruction and the review
// prompt as user turn. An empty context counts as zero. The tokenizer
// runs locally; ctx is unused.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	prompt := immodiag.BuildReviewPrompt(immodiag.ReviewRequest{Context: text})
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.CountTokensConfig{
		SystemInstruction: BuildReviewConfig().SystemInstruction,
	}

	result, err := tc.tok.CountTokens(contents, config)
	if err != nil {
		return 0, immodiag.Errorf(immodiag.EINTERNAL, "count tokens: %v", err)
	}

	return int(result.TotalTokens), nil
}
