// Package citations computes derived statistics over a year→count citation series.
package citations

import "scholar_spider/internal/models"

// DefaultYears is the window used by the profile summary.
const DefaultYears = 10

// SumFirstYears sums the first k counts in series order, or all of them if
// there are fewer than k.
func SumFirstYears(series models.CitationSeries, k int) int {
	total := 0
	for i, yc := range series {
		if i >= k {
			break
		}
		total += yc.Count
	}
	return total
}

// SumAfterThreshold accumulates a running total until it reaches threshold,
// then sums the next k counts. The count that crosses the threshold is not
// included. Returns 0 if the threshold is never reached.
func SumAfterThreshold(series models.CitationSeries, threshold, k int) int {
	running := 0
	total := 0
	taken := 0
	for _, yc := range series {
		if running >= threshold {
			if taken >= k {
				break
			}
			total += yc.Count
			taken++
			continue
		}
		running += yc.Count
	}
	return total
}

// Summarize computes the stats stored for an author. currentYear is used for
// the years-since-last-activity value.
func Summarize(series models.CitationSeries, currentYear int) models.CitationStats {
	stats := models.CitationStats{
		FirstTenYears:    SumFirstYears(series, DefaultYears),
		TenYearsSince100: SumAfterThreshold(series, 100, DefaultYears),
		TenYearsSince500: SumAfterThreshold(series, 500, DefaultYears),
	}
	if last, ok := series.LastYear(); ok {
		stats.YearsSinceLast = currentYear - last
	}
	return stats
}
