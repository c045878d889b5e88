// # internal/reconcile/reconcile.go
package reconcile

import (
	"sort"

	"stringcheck/internal/component"
	"stringcheck/internal/langpack"
	"stringcheck/internal/scanner"
)

// Reference selects the set a language is measured against.
type Reference string

const (
	// ReferenceUnion measures against every string defined in any
	// language: "how much of the plugin's string surface does L cover".
	ReferenceUnion Reference = "union"
	// ReferenceUsages measures against the strings actually referenced in
	// code, the stricter variant.
	ReferenceUsages Reference = "usages"
)

type Options struct {
	Reference   Reference
	CheckUnused bool
}

// Missing is a usage with no definition in any language.
type Missing struct {
	Key  component.StringKey
	File string
	Line int
}

// Gap is a key a specific language lacks, with the languages a translator
// can copy from.
type Gap struct {
	Key         component.StringKey
	AvailableIn []string
}

type LanguageReport struct {
	Lang     string
	Missing  []Gap
	Coverage int
}

type Report struct {
	Reference      Reference
	UsageCount     int
	UnionCount     int
	FileCount      int
	HardMissing    []Missing
	Languages      []LanguageReport
	PossiblyUnused []component.StringKey
}

// HasFindings reports whether the run should exit non-zero: hard-missing
// strings or translation gaps. Possibly-unused strings are advisory and
// never affect the exit status.
func (r *Report) HasFindings() bool {
	if len(r.HardMissing) > 0 {
		return true
	}
	for _, lr := range r.Languages {
		if len(lr.Missing) > 0 {
			return true
		}
	}
	return false
}

// GapCount sums missing translations over all languages.
func (r *Report) GapCount() int {
	n := 0
	for _, lr := range r.Languages {
		n += len(lr.Missing)
	}
	return n
}

// MinCoverage returns the lowest per-language coverage, 100 when no
// language was found.
func (r *Report) MinCoverage() int {
	min := 100
	for _, lr := range r.Languages {
		if lr.Coverage < min {
			min = lr.Coverage
		}
	}
	return min
}

// AvgCoverage returns the mean per-language coverage (integer division),
// 100 when no language was found.
func (r *Report) AvgCoverage() int {
	if len(r.Languages) == 0 {
		return 100
	}
	sum := 0
	for _, lr := range r.Languages {
		sum += lr.Coverage
	}
	return sum / len(r.Languages)
}

// Reconcile diffs the scanned usages against the loaded definitions.
func Reconcile(scan *scanner.Result, defs *langpack.Definitions, opts Options) *Report {
	if opts.Reference == "" {
		opts.Reference = ReferenceUnion
	}

	report := &Report{
		Reference:  opts.Reference,
		UsageCount: len(scan.Usages),
		UnionCount: len(defs.Union),
		FileCount:  scan.FileCount,
	}

	// Hard-missing: used somewhere, defined nowhere.
	for key, usage := range scan.Usages {
		if _, ok := defs.Union[key]; !ok {
			report.HardMissing = append(report.HardMissing, Missing{
				Key:  key,
				File: usage.File,
				Line: usage.Line,
			})
		}
	}
	sort.Slice(report.HardMissing, func(i, j int) bool {
		return less(report.HardMissing[i].Key, report.HardMissing[j].Key)
	})

	reference := referenceSet(scan, defs, opts.Reference)

	langs := defs.Languages()
	sort.Strings(langs)
	for _, lang := range langs {
		set := defs.PerLanguage[lang]

		lr := LanguageReport{Lang: lang}
		covered := 0
		for key := range reference {
			if _, ok := set[key]; ok {
				covered++
				continue
			}
			available := defs.DefinedIn(key)
			sort.Strings(available)
			lr.Missing = append(lr.Missing, Gap{Key: key, AvailableIn: available})
		}
		sort.Slice(lr.Missing, func(i, j int) bool {
			return less(lr.Missing[i].Key, lr.Missing[j].Key)
		})

		if len(reference) == 0 {
			lr.Coverage = 100
		} else {
			lr.Coverage = covered * 100 / len(reference)
		}
		report.Languages = append(report.Languages, lr)
	}

	if opts.CheckUnused {
		for key := range defs.Union {
			if _, ok := scan.Usages[key]; !ok {
				report.PossiblyUnused = append(report.PossiblyUnused, key)
			}
		}
		sort.Slice(report.PossiblyUnused, func(i, j int) bool {
			return less(report.PossiblyUnused[i], report.PossiblyUnused[j])
		})
	}

	return report
}

func referenceSet(scan *scanner.Result, defs *langpack.Definitions, ref Reference) map[component.StringKey]struct{} {
	if ref == ReferenceUsages {
		set := make(map[component.StringKey]struct{}, len(scan.Usages))
		for key := range scan.Usages {
			set[key] = struct{}{}
		}
		return set
	}
	return defs.Union
}

func less(a, b component.StringKey) bool {
	if a.Component != b.Component {
		return a.Component < b.Component
	}
	return a.Identifier < b.Identifier
}
