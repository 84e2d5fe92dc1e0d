package citations

import (
	"testing"

	"scholar_spider/internal/models"

	"github.com/stretchr/testify/require"
)

func series(startYear int, counts ...int) models.CitationSeries {
	s := make(models.CitationSeries, len(counts))
	for i, c := range counts {
		s[i] = models.YearCount{Year: startYear + i, Count: c}
	}
	return s
}

func TestSumFirstYears(t *testing.T) {
	testCases := []struct {
		name     string
		series   models.CitationSeries
		expected int
	}{
		{name: "empty", series: nil, expected: 0},
		{name: "shorter than window", series: series(2015, 1, 2, 3), expected: 6},
		{name: "exactly ten", series: series(2000, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1), expected: 10},
		{name: "ignores eleventh onward", series: series(2000, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1000, 5000), expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, SumFirstYears(tc.series, DefaultYears))
		})
	}
}

func TestSumFirstYearsKeepsSeriesOrder(t *testing.T) {
	s := models.CitationSeries{{Year: 2020, Count: 7}, {Year: 2001, Count: 100}, {Year: 2010, Count: 3}}
	require.Equal(t, 107, SumFirstYears(s, 2))
}

func TestSumAfterThreshold(t *testing.T) {
	testCases := []struct {
		name      string
		series    models.CitationSeries
		threshold int
		expected  int
	}{
		{
			name:      "starts after crossing element",
			series:    series(2000, 50, 60, 20, 20, 20),
			threshold: 100,
			expected:  60,
		},
		{
			name:      "caps at ten entries",
			series:    series(2000, 100, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 999),
			threshold: 100,
			expected:  10,
		},
		{
			name:      "exact threshold counts as reached",
			series:    series(2000, 40, 60, 5),
			threshold: 100,
			expected:  5,
		},
		{
			name:      "never reached",
			series:    series(2000, 10, 20, 30),
			threshold: 500,
			expected:  0,
		},
		{
			name:      "empty",
			series:    nil,
			threshold: 100,
			expected:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, SumAfterThreshold(tc.series, tc.threshold, DefaultYears))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := series(2015, 50, 60, 200, 300, 10)

	stats := Summarize(s, 2026)

	require.Equal(t, 620, stats.FirstTenYears)
	require.Equal(t, 510, stats.TenYearsSince100)
	require.Equal(t, 10, stats.TenYearsSince500)
	require.Equal(t, 7, stats.YearsSinceLast)
}
