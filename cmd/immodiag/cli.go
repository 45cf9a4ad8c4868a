package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/fwojciec/immodiag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config
	DBPath string

	Grounder     immodiag.Grounder
	Analyst      immodiag.Analyst
	Reports      immodiag.ReportService
	ReportWriter immodiag.ReportWriter
	TokenCounter immodiag.TokenCounter
	Handler      http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string `type:"path" env:"IMMODIAG_CONFIG" help:"YAML configuration file"`
	LogFormat string `enum:"text,json" default:"text" help:"Log format (text or json)"`
	Debug     bool   `help:"Enable debug logging"`

	Context  ContextCmd  `cmd:"" help:"Print the grounding context extracted from a listing"`
	Review   ReviewCmd   `cmd:"" help:"Ask the analyst for an expert review of a listing"`
	Diagnose DiagnoseCmd `cmd:"" help:"Diagnose a listing form given as a JSON file"`
	Serve    ServeCmd    `cmd:"" help:"Serve the JSON API"`
	Reports  ReportsCmd  `cmd:"" help:"List, show or delete stored reports"`
	Diag     DiagCmd     `cmd:"" help:"Show runtime and configuration status"`
}

// ContextCmd is the "context" subcommand.
type ContextCmd struct {
	URL    string `arg:"" optional:"" help:"Listing URL"`
	File   string `short:"f" type:"path" help:"Read HTML from a file instead of fetching the URL"`
	Tokens bool   `short:"t" help:"Report the token count of the context"`
	JSON   bool   `name:"json" help:"Print the extracted fact and context as JSON"`
}

// ReviewCmd is the "review" subcommand.
type ReviewCmd struct {
	URL string `arg:"" help:"Listing URL"`
}

// DiagnoseCmd is the "diagnose" subcommand.
type DiagnoseCmd struct {
	Form string `arg:"" type:"path" help:"JSON file holding the listing form"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (default :8787)"`
}

// ReportsCmd is the "reports" subcommand. Without a subcommand it lists
// reports.
type ReportsCmd struct {
	List   ReportsListCmd   `cmd:"" default:"withargs" help:"List stored reports"`
	Show   ReportsShowCmd   `cmd:"" help:"Print one stored report"`
	Delete ReportsDeleteCmd `cmd:"" help:"Delete one stored report"`
}

// ReportsListCmd is the "reports list" subcommand.
type ReportsListCmd struct {
	URL    string `help:"Only reports for this listing URL"`
	Kind   string `help:"Only reports of this kind (review or diagnosis)"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of reports"`
	Full   bool   `help:"Show full report content"`
	Export string `type:"path" help:"Also write the listed reports as markdown files under this directory"`
}

// ReportsShowCmd is the "reports show" subcommand.
type ReportsShowCmd struct {
	ID string `arg:"" help:"Report ID"`
}

// ReportsDeleteCmd is the "reports delete" subcommand.
type ReportsDeleteCmd struct {
	ID    string `arg:"" help:"Report ID"`
	Force bool   `help:"Confirm deletion"`
}

// DiagCmd is the "diag" subcommand.
type DiagCmd struct{}
