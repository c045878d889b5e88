package history

import "fmt"

// BuildTrendReport turns an ascending snapshot series into trend points
// with deltas against the preceding run.
func BuildTrendReport(comp string, snapshots []Snapshot) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:        current.Timestamp,
			FileCount:        current.FileCount,
			UsageCount:       current.UsageCount,
			UnionCount:       current.UnionCount,
			LanguageCount:    current.LanguageCount,
			HardMissingCount: current.HardMissingCount,
			GapCount:         current.GapCount,
			UnusedCount:      current.UnusedCount,
			MinCoverage:      current.MinCoverage,
			AvgCoverage:      current.AvgCoverage,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaUsages = current.UsageCount - prev.UsageCount
			point.DeltaUnion = current.UnionCount - prev.UnionCount
			point.DeltaMissing = current.HardMissingCount - prev.HardMissingCount
			point.DeltaGaps = current.GapCount - prev.GapCount
			point.DeltaAvgCoverage = current.AvgCoverage - prev.AvgCoverage
		}

		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Component:     comp,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		ScanCount:     len(points),
		Points:        points,
	}, nil
}
