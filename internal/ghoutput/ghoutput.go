// Package ghoutput publishes step outputs and the job summary of a run.
package ghoutput

import (
	"sort"
	"strings"
)

// Setter receives step outputs. *githubactions.Action implements it.
type Setter interface {
	SetOutput(key, value string)
}

// SummaryWriter appends markdown to the job summary. *githubactions.Action implements it.
type SummaryWriter interface {
	AddStepSummary(markdown string)
}

// Write publishes values in key order. Blank keys are skipped.
func Write(out Setter, values map[string]string) {
	if out == nil || len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		out.SetOutput(key, values[key])
	}
}

// Summary appends markdown to the job summary when it is not blank.
func Summary(out SummaryWriter, markdown string) {
	if out == nil || strings.TrimSpace(markdown) == "" {
		return
	}
	out.AddStepSummary(markdown)
}
