// # internal/output/sarif.go
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"stringcheck/internal/reconcile"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDMissing = "STR001"
	ruleIDGap     = "STR002"
	ruleIDUnused  = "STR003"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a reconciliation
// report, suitable for CI annotation.
func GenerateSARIF(report *reconcile.Report, toolVersion string) (string, error) {
	run := sarifRun{
		Tool: sarifTool{
			Driver: sarifDriver{
				Name:    "stringcheck",
				Version: toolVersion,
				Rules: []sarifRule{
					{
						ID:               ruleIDMissing,
						Name:             "MissingString",
						ShortDescription: sarifMessage{Text: "String used in code but defined in no language"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
					},
					{
						ID:               ruleIDGap,
						Name:             "MissingTranslation",
						ShortDescription: sarifMessage{Text: "String not translated in a discovered language"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
					},
					{
						ID:               ruleIDUnused,
						Name:             "PossiblyUnusedString",
						ShortDescription: sarifMessage{Text: "String defined but never referenced by a scanned usage"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
					},
				},
			},
		},
		Results: []sarifResult{},
	}

	for _, m := range report.HardMissing {
		run.Results = append(run.Results, sarifResult{
			RuleID: ruleIDMissing,
			Level:  "error",
			Message: sarifMessage{Text: fmt.Sprintf(
				"String '%s' of component '%s' is used here but defined in no language",
				m.Key.Identifier, m.Key.Component)},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: m.File},
					Region:           &sarifRegion{StartLine: m.Line},
				},
			}},
		})
	}

	for _, lr := range report.Languages {
		for _, gap := range lr.Missing {
			text := fmt.Sprintf("String '%s' of component '%s' is missing in language '%s'",
				gap.Key.Identifier, gap.Key.Component, lr.Lang)
			if len(gap.AvailableIn) > 0 {
				text += " (available in: " + strings.Join(gap.AvailableIn, ", ") + ")"
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:  ruleIDGap,
				Level:   "warning",
				Message: sarifMessage{Text: text},
			})
		}
	}

	for _, key := range report.PossiblyUnused {
		run.Results = append(run.Results, sarifResult{
			RuleID: ruleIDUnused,
			Level:  "note",
			Message: sarifMessage{Text: fmt.Sprintf(
				"String '%s' of component '%s' is defined but possibly unused",
				key.Identifier, key.Component)},
		})
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
