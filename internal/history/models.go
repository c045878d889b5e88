package history

import "time"

const SchemaVersion = 1

// Snapshot is the aggregate outcome of one completed check. The usage and
// definition sets themselves are never persisted, only their counts.
type Snapshot struct {
	SchemaVersion    int       `json:"schema_version"`
	Timestamp        time.Time `json:"timestamp"`
	Component        string    `json:"component"`
	FileCount        int       `json:"file_count"`
	UsageCount       int       `json:"usage_count"`
	UnionCount       int       `json:"union_count"`
	LanguageCount    int       `json:"language_count"`
	HardMissingCount int       `json:"hard_missing_count"`
	GapCount         int       `json:"gap_count"`
	UnusedCount      int       `json:"unused_count"`
	MinCoverage      int       `json:"min_coverage"`
	AvgCoverage      int       `json:"avg_coverage"`
}

type TrendPoint struct {
	Timestamp        time.Time `json:"timestamp"`
	FileCount        int       `json:"file_count"`
	UsageCount       int       `json:"usage_count"`
	UnionCount       int       `json:"union_count"`
	LanguageCount    int       `json:"language_count"`
	HardMissingCount int       `json:"hard_missing_count"`
	GapCount         int       `json:"gap_count"`
	UnusedCount      int       `json:"unused_count"`
	MinCoverage      int       `json:"min_coverage"`
	AvgCoverage      int       `json:"avg_coverage"`
	DeltaUsages      int       `json:"delta_usages"`
	DeltaUnion       int       `json:"delta_union"`
	DeltaMissing     int       `json:"delta_missing"`
	DeltaGaps        int       `json:"delta_gaps"`
	DeltaAvgCoverage int       `json:"delta_avg_coverage"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Component     string       `json:"component"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
