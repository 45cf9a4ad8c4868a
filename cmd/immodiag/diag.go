package main

import (
	"fmt"
	"runtime"
)

// Run executes the diag command.
func (c *DiagCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	provider := cfg.ResolveProvider()
	if provider == "" {
		provider = "none"
	}

	fmt.Fprintf(deps.Stdout, "runtime:   %s\n", runtime.Version())
	fmt.Fprintf(deps.Stdout, "provider:  %s\n", provider)
	fmt.Fprintf(deps.Stdout, "openai:    %s\n", keyStatus(cfg.OpenAI.APIKey))
	fmt.Fprintf(deps.Stdout, "gemini:    %s\n", keyStatus(cfg.Gemini.APIKey))
	fmt.Fprintf(deps.Stdout, "anthropic: %s\n", keyStatus(cfg.Anthropic.APIKey))
	fmt.Fprintf(deps.Stdout, "database:  %s\n", deps.DBPath)
	return nil
}

func keyStatus(key string) string {
	if key == "" {
		return "no key"
	}
	return "key present"
}
