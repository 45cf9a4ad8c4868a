package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/immodiag"
)

// Run executes the diagnose command.
func (c *DiagnoseCmd) Run(deps *Dependencies) error {
	b, err := os.ReadFile(c.Form)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot read %s\n", c.Form)
		return err
	}

	var form map[string]any
	if err := json.Unmarshal(b, &form); err != nil {
		err = immodiag.Errorf(immodiag.EINVALID, "%s is not a JSON object", c.Form)
		fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		return err
	}

	diagnosis, err := deps.Analyst.Diagnose(deps.Ctx, form)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(diagnosis, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))

	url, _ := form["url"].(string)
	saveReport(deps, &immodiag.Report{
		Kind:    immodiag.ReportKindDiagnosis,
		URL:     url,
		Content: string(out),
	}, string(b))
	return nil
}
