package immodiag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReviewTemperature is the sampling temperature for listing reviews.
const ReviewTemperature = 0.2

// NoReviewAnswer replaces an empty model review.
const NoReviewAnswer = "Pas de réponse IA"

// Personas given to the model as system instructions.
const (
	ReviewPersona    = "Tu es un expert immo + travaux (France). Parle cash, chiffres obligatoires."
	DiagnosisPersona = "Tu es un expert immobilier français très cash, tu protèges l'acheteur."
)

// Validate returns an error if the request carries nothing to review.
func (r ReviewRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" && strings.TrimSpace(r.Context) == "" {
		return Errorf(EINVALID, "listing URL or context required")
	}
	return nil
}

// BuildReviewPrompt returns the user prompt for a listing review. The
// grounding context is embedded verbatim.
func BuildReviewPrompt(req ReviewRequest) string {
	listingURL := req.URL
	if listingURL == "" {
		listingURL = "Aucune URL fournie"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyse cette annonce: %s.\n", listingURL)
	if req.Context != "" {
		sb.WriteString("\nDonnées extraites de l'annonce:\n")
		sb.WriteString(req.Context)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Donne: résumé 4 lignes, €/m², fourchette travaux €/m² + budget total (achat+frais+travaux),\n")
	sb.WriteString("3 atouts, 3 risques avec coûts, 3 leviers de négo (rabais % et €), ")
	sb.WriteString("checklist docs (DPE, urbanisme, servitudes, assainissement).")
	return sb.String()
}

// BuildDiagnosisPrompt returns the user prompt asking for a JSON diagnosis
// of form. Returns EINVALID when form is empty.
func BuildDiagnosisPrompt(form map[string]any) (string, error) {
	if len(form) == 0 {
		return "", Errorf(EINVALID, "form required")
	}
	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return "", Errorf(EINVALID, "form is not serializable: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("Diagnostique comme un agent immo français (20 ans d'expérience) qui protège l'acheteur.\n")
	sb.WriteString("Données du bien (JSON):\n")
	sb.Write(data)
	sb.WriteString("\n\nRéponds STRICTEMENT en JSON:\n")
	sb.WriteString(`{
  "forts": ["...","...","...","...","...","..."],
  "vigilances": ["...","...","...","...","...","..."],
  "ameliorations": [
    { "action": "...", "impact_dpe": "...", "gain": "..." },
    { "action": "...", "impact_dpe": "...", "gain": "..." }
  ]
}`)
	fmt.Fprintf(&sb, "\nRègles: max %d/%d et exactement %d améliorations, concret et actionnable.",
		MaxDiagnosisItems, MaxDiagnosisItems, DiagnosisImprovements)
	return sb.String(), nil
}
