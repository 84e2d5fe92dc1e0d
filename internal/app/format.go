package app

import (
	"fmt"
	"strconv"
	"strings"

	"scholar_spider/internal/models"
)

const missing = "N/A"

func intOrMissing(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

func formatInterests(interests []string) string {
	quoted := make([]string, len(interests))
	for i, s := range interests {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatCoAuthors(coAuthors []models.CoAuthor) string {
	var b strings.Builder
	fmt.Fprintf(&b, " (%d):", len(coAuthors))
	for _, c := range coAuthors {
		b.WriteString("\n")
		b.WriteString(c.Name)
	}
	return b.String()
}

func formatSeries(series models.CitationSeries) string {
	parts := make([]string, len(series))
	for i, yc := range series {
		parts[i] = fmt.Sprintf("%d: %d", yc.Year, yc.Count)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FormatAuthorData renders the Author_data.txt body.
func FormatAuthorData(p *models.AuthorProfile, stats models.CitationStats) string {
	affiliation := missing
	if p.Affiliation != nil {
		affiliation = *p.Affiliation
	}

	lines := []string{
		"Name: " + p.Name,
		"Affiliation: " + affiliation,
		"Interests: " + formatInterests(p.Interests),
		"Cited by: " + intOrMissing(p.CitedBy),
		"Cited in the last 5 years: " + intOrMissing(p.CitedBy5y),
		"h-index: " + intOrMissing(p.HIndex),
		"i10 index: " + intOrMissing(p.I10Index),
		"Co authors" + formatCoAuthors(p.CoAuthors),
		"Citations per year: " + formatSeries(p.CitesPerYear),
		"Total No. of citations in the first 10 years: " + strconv.Itoa(stats.FirstTenYears),
		"Num of citations since 100 until 10 years later: " + strconv.Itoa(stats.TenYearsSince100),
		"Num of citations since 500 until 10 years later: " + strconv.Itoa(stats.TenYearsSince500),
		"Number of years with 0 citations: " + strconv.Itoa(stats.YearsSinceLast),
	}
	return strings.Join(lines, "\n") + "\n"
}
