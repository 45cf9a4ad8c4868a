package gjson

import (
	"strings"

	"github.com/fwojciec/immodiag"
	"github.com/tidwall/gjson"
)

// ParseDiagnosis normalizes a model's JSON diagnosis. Falsy list items are
// dropped, lists are capped, plain-string improvements become actions and
// the legacy "amels" key is accepted. Returns EINTERNAL when the answer is
// not JSON or lacks strengths, warnings or the expected improvements.
func ParseDiagnosis(raw string) (*immodiag.Diagnosis, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	if !gjson.Valid(raw) {
		return nil, immodiag.Errorf(immodiag.EINTERNAL, "model answer is not JSON")
	}
	root := gjson.Parse(raw)

	d := &immodiag.Diagnosis{
		Strengths: truthyStrings(root.Get("forts"), immodiag.MaxDiagnosisItems),
		Warnings:  truthyStrings(root.Get("vigilances"), immodiag.MaxDiagnosisItems),
	}

	amels := root.Get("ameliorations")
	if !amels.IsArray() {
		amels = root.Get("amels")
	}
	if amels.IsArray() {
		for _, a := range amels.Array() {
			if len(d.Improvements) == immodiag.DiagnosisImprovements {
				break
			}
			d.Improvements = append(d.Improvements, improvement(a))
		}
	}

	if len(d.Strengths) == 0 || len(d.Warnings) == 0 || len(d.Improvements) < immodiag.DiagnosisImprovements {
		return nil, immodiag.Errorf(immodiag.EINTERNAL, "incomplete model answer")
	}
	return d, nil
}

func truthyStrings(list gjson.Result, max int) []string {
	if !list.IsArray() {
		return nil
	}
	var out []string
	for _, v := range list.Array() {
		if len(out) == max {
			break
		}
		switch v.Type {
		case gjson.String:
			if v.Str != "" {
				out = append(out, v.Str)
			}
		case gjson.Number:
			if v.Num != 0 {
				out = append(out, v.Raw)
			}
		case gjson.True:
			out = append(out, v.Raw)
		case gjson.JSON:
			out = append(out, v.Raw)
		}
	}
	return out
}

func improvement(v gjson.Result) immodiag.Improvement {
	if v.Type == gjson.String {
		return immodiag.Improvement{Action: v.Str}
	}
	if !v.IsObject() {
		return immodiag.Improvement{}
	}
	return immodiag.Improvement{
		Action:    v.Get("action").String(),
		ImpactDPE: optionalString(v.Get("impact_dpe")),
		Gain:      optionalString(v.Get("gain")),
	}
}

func optionalString(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := v.String()
	if v.Type == gjson.JSON {
		s = v.Raw
	}
	return &s
}
