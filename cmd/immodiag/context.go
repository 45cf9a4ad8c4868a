package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/immodiag"
)

// Run executes the context command.
func (c *ContextCmd) Run(deps *Dependencies) error {
	if c.URL == "" && c.File == "" {
		fmt.Fprintln(deps.Stderr, "usage: immodiag context <url> [--file page.html]")
		return immodiag.Errorf(immodiag.EINVALID, "listing URL or --file required")
	}

	var grounding *immodiag.Grounding
	if c.File != "" {
		b, err := os.ReadFile(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot read %s\n", c.File)
			return err
		}
		grounding = deps.Grounder.GroundHTML(c.URL, string(b))
	} else {
		grounding = deps.Grounder.Ground(deps.Ctx, c.URL)
	}

	if grounding.Fact.IsZero() {
		fmt.Fprintln(deps.Stderr, "Warning: no listing attributes found; the context holds the page excerpt only")
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(grounding); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(deps.Stdout, grounding.Context)
	}

	if c.Tokens {
		n, err := deps.TokenCounter.CountTokens(deps.Ctx, grounding.Context)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "%s tokens, %s characters\n",
			humanize.Comma(int64(n)),
			humanize.Comma(int64(utf8.RuneCountInString(grounding.Context))))
	}

	return nil
}
