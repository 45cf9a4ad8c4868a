package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/fwojciec/immodiag"
	"github.com/go-playground/validator/v10"
)

// MaxRequestBodySize bounds request bodies, which may carry a whole page.
const MaxRequestBodySize = 5 << 20

// Server exposes grounding and analysis over a JSON API.
type Server struct {
	Grounder immodiag.Grounder

	// Analyst answers /api/chat and /api/analyze-ia. When nil, those
	// routes respond 503.
	Analyst immodiag.Analyst

	// Reports, when set, stores every generated report.
	Reports immodiag.ReportService

	Logger *slog.Logger

	mux      *http.ServeMux
	validate *validator.Validate
}

// NewServer returns a Server with its routes registered.
func NewServer(grounder immodiag.Grounder, analyst immodiag.Analyst) *Server {
	s := &Server{
		Grounder: grounder,
		Analyst:  analyst,
		Logger:   slog.Default(),
		mux:      http.NewServeMux(),
		validate: validator.New(),
	}
	s.mux.HandleFunc("/api/context", s.post(s.handleContext))
	s.mux.HandleFunc("/api/chat", s.post(s.handleChat))
	s.mux.HandleFunc("/api/analyze-ia", s.post(s.handleAnalyze))
	s.mux.HandleFunc("/api/diag", s.handleDiag)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type contextRequest struct {
	URL  string `json:"url" validate:"omitempty,url"`
	HTML string `json:"html" validate:"required_without=URL"`
}

type chatRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type analyzeRequest struct {
	Form map[string]any `json:"form" validate:"required"`
}

type diagResponse struct {
	Runtime           string `json:"runtime"`
	Provider          string `json:"provider"`
	AnalystConfigured bool   `json:"analyst_configured"`
	ReportsEnabled    bool   `json:"reports_enabled"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := s.decode(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	var g *immodiag.Grounding
	if req.HTML != "" {
		g = s.Grounder.GroundHTML(req.URL, req.HTML)
	} else {
		g = s.Grounder.Ground(r.Context(), req.URL)
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.Analyst == nil {
		s.Error(w, r, immodiag.Errorf(immodiag.EUNAVAILABLE, "analyst not configured"))
		return
	}
	var req chatRequest
	if err := s.decode(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	g := s.Grounder.Ground(r.Context(), req.URL)
	review, err := s.Analyst.Review(r.Context(), immodiag.ReviewRequest{URL: req.URL, Context: g.Context})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.store(r, &immodiag.Report{Kind: immodiag.ReportKindReview, URL: req.URL, Content: review}, g.Context)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(review))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.Analyst == nil {
		s.Error(w, r, immodiag.Errorf(immodiag.EUNAVAILABLE, "analyst not configured"))
		return
	}
	var req analyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	d, err := s.Analyst.Diagnose(r.Context(), req.Form)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if s.Reports != nil {
		content, _ := json.Marshal(d)
		form, _ := json.Marshal(req.Form)
		listingURL, _ := req.Form["url"].(string)
		s.store(r, &immodiag.Report{Kind: immodiag.ReportKindDiagnosis, URL: listingURL, Content: string(content)}, string(form))
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDiag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		s.Error(w, r, errMethodNotAllowed)
		return
	}
	resp := diagResponse{
		Runtime:           runtime.Version(),
		AnalystConfigured: s.Analyst != nil,
		ReportsEnabled:    s.Reports != nil,
	}
	if s.Analyst != nil {
		resp.Provider = s.Analyst.Name()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// store persists a report when a report service is set. Failures are
// logged.
func (s *Server) store(r *http.Request, report *immodiag.Report, grounding string) {
	if s.Reports == nil {
		return
	}
	report.Provider = s.Analyst.Name()
	if err := s.Reports.CreateReport(r.Context(), report, grounding); err != nil {
		s.Logger.Error("store report", "kind", report.Kind, "url", report.URL, "err", err)
	}
}

var errMethodNotAllowed = errors.New("method not allowed")

func (s *Server) post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			s.Error(w, r, errMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		return immodiag.Errorf(immodiag.EINVALID, "invalid JSON body: %v", err)
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return immodiag.Errorf(immodiag.EINVALID, "%s", formatValidationError(verrs[0]))
		}
		return immodiag.Errorf(immodiag.EINVALID, "invalid request: %v", err)
	}
	return nil
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required without %s", field, strings.ToLower(e.Param()))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, e.Tag())
	}
}

// Error writes err as a JSON body with the status matching its code.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errMethodNotAllowed) {
		s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Méthode non autorisée"})
		return
	}

	code, msg := immodiag.ErrorCode(err), immodiag.ErrorMessage(err)
	status := ErrorStatusCode(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// ErrorStatusCode maps application error codes to HTTP status codes.
func ErrorStatusCode(code string) int {
	switch code {
	case immodiag.EINVALID:
		return http.StatusBadRequest
	case immodiag.ENOTFOUND:
		return http.StatusNotFound
	case immodiag.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}
