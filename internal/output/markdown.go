// # internal/output/markdown.go
package output

import (
	"fmt"
	"strings"
	"time"

	"stringcheck/internal/reconcile"
)

type MarkdownOptions struct {
	Component   string
	MoodleRoot  string
	Version     string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(report *reconcile.Report, opts MarkdownOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: String Check Report\n")
	b.WriteString("component: " + nonEmpty(opts.Component, "all") + "\n")
	b.WriteString("moodle_root: " + nonEmpty(opts.MoodleRoot, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("reference: " + string(report.Reference) + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# String Check Report\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", report.FileCount)
	fmt.Fprintf(&b, "| Distinct usages | %d |\n", report.UsageCount)
	fmt.Fprintf(&b, "| Defined strings (union) | %d |\n", report.UnionCount)
	fmt.Fprintf(&b, "| Languages | %d |\n", len(report.Languages))
	fmt.Fprintf(&b, "| Missing strings | %d |\n", len(report.HardMissing))
	fmt.Fprintf(&b, "| Translation gaps | %d |\n", report.GapCount())
	if len(report.PossiblyUnused) > 0 {
		fmt.Fprintf(&b, "| Possibly unused | %d |\n", len(report.PossiblyUnused))
	}
	b.WriteString("\n")

	b.WriteString("## Missing Strings\n\n")
	if len(report.HardMissing) == 0 {
		b.WriteString("No strings are missing from every language.\n\n")
	} else {
		b.WriteString("Used in code but defined in no language:\n\n")
		for _, m := range report.HardMissing {
			fmt.Fprintf(&b, "- `%s` / `%s` — first used at `%s:%d`\n",
				m.Key.Component, m.Key.Identifier, m.File, m.Line)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Languages\n\n")
	if len(report.Languages) == 0 {
		b.WriteString("No language packs found.\n\n")
	}
	for _, lr := range report.Languages {
		fmt.Fprintf(&b, "### %s — %d%% coverage\n\n", lr.Lang, lr.Coverage)
		if len(lr.Missing) == 0 {
			b.WriteString("Complete.\n\n")
			continue
		}
		for _, gap := range lr.Missing {
			if len(gap.AvailableIn) > 0 {
				fmt.Fprintf(&b, "- `%s` / `%s` (available in: %s)\n",
					gap.Key.Component, gap.Key.Identifier, strings.Join(gap.AvailableIn, ", "))
			} else {
				fmt.Fprintf(&b, "- `%s` / `%s` (defined nowhere)\n",
					gap.Key.Component, gap.Key.Identifier)
			}
		}
		b.WriteString("\n")
	}

	if len(report.PossiblyUnused) > 0 {
		b.WriteString("## Possibly Unused\n\n")
		b.WriteString("Defined but never referenced by a scanned usage. Dynamic string\n")
		b.WriteString("construction is invisible to the lexical scan, so treat these as\n")
		b.WriteString("candidates, not verdicts.\n\n")
		for _, key := range report.PossiblyUnused {
			fmt.Fprintf(&b, "- `%s` / `%s`\n", key.Component, key.Identifier)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
