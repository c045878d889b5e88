// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"stringcheck/internal/reconcile"
)

type TSVGenerator struct {
	report *reconcile.Report
}

func NewTSVGenerator(report *reconcile.Report) *TSVGenerator {
	return &TSVGenerator{report: report}
}

func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tComponent\tIdentifier\tLanguage\tAvailableIn\tFile\tLine\n")

	for _, m := range t.report.HardMissing {
		buf.WriteString(fmt.Sprintf("missing\t%s\t%s\t\t\t%s\t%d\n",
			m.Key.Component, m.Key.Identifier, m.File, m.Line))
	}

	for _, lr := range t.report.Languages {
		for _, gap := range lr.Missing {
			buf.WriteString(fmt.Sprintf("gap\t%s\t%s\t%s\t%s\t\t\n",
				gap.Key.Component, gap.Key.Identifier, lr.Lang, strings.Join(gap.AvailableIn, ",")))
		}
	}

	for _, key := range t.report.PossiblyUnused {
		buf.WriteString(fmt.Sprintf("possibly_unused\t%s\t%s\t\t\t\t\n",
			key.Component, key.Identifier))
	}

	return buf.String(), nil
}
