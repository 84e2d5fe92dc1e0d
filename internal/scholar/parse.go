package scholar

import (
	"regexp"
	"strconv"
	"strings"

	"scholar_spider/internal/links"
	"scholar_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	nameSelector        = "#gsc_prf_in"
	affiliationSelector = "#gsc_prf_i .gsc_prf_il"
	interestSelector    = "#gsc_prf_int a"
	pictureSelector     = "#gsc_prf_pup-img"
	indexCellSelector   = "#gsc_rsb_st td.gsc_rsb_std"
	coAuthorSelector    = "#gsc_rsb_co .gsc_rsb_a_desc a"
	yearLabelSelector   = ".gsc_md_hist_b .gsc_g_t"
	yearBarSelector     = ".gsc_md_hist_b .gsc_g_a"
	barValueSelector    = ".gsc_g_al"

	// placeholder image served for authors without a photo
	defaultAvatar = "avatar_scholar"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reZIndex     = regexp.MustCompile(`z-index:\s*(\d+)`)
)

func text(s *goquery.Selection) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s.Text(), " "))
}

func atoi(s string) *int {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func parseBasics(doc *goquery.Document, profile *models.AuthorProfile, baseURL string) {
	profile.Name = text(doc.Find(nameSelector).First())

	if aff := doc.Find(affiliationSelector).First(); aff.Length() > 0 {
		v := text(aff)
		profile.Affiliation = &v
	}

	profile.Interests = nil
	doc.Find(interestSelector).Each(func(_ int, s *goquery.Selection) {
		profile.Interests = append(profile.Interests, text(s))
	})

	profile.PictureURL = nil
	if src, ok := doc.Find(pictureSelector).Attr("src"); ok && src != "" && !strings.Contains(src, defaultAvatar) {
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			src = links.Join(baseURL, src)
		}
		profile.PictureURL = &src
	}
}

// parseIndices reads the stats table: all-time and five-year columns for
// citations, h-index and i10-index, in that order.
func parseIndices(doc *goquery.Document, profile *models.AuthorProfile) {
	targets := []**int{
		&profile.CitedBy, &profile.CitedBy5y,
		&profile.HIndex, &profile.HIndex5y,
		&profile.I10Index, &profile.I10Index5y,
	}
	doc.Find(indexCellSelector).Each(func(i int, s *goquery.Selection) {
		if i < len(targets) {
			*targets[i] = atoi(s.Text())
		}
	})
}

func parseCoAuthors(doc *goquery.Document, profile *models.AuthorProfile) {
	profile.CoAuthors = nil
	doc.Find(coAuthorSelector).Each(func(_ int, s *goquery.Selection) {
		if name := text(s); name != "" {
			profile.CoAuthors = append(profile.CoAuthors, models.CoAuthor{Name: name})
		}
	})
}

// parseCounts builds the series from the citations histogram. Bars are
// positioned by z-index counted from the newest year; years without a bar
// have zero citations. No labels leaves the series nil.
func parseCounts(doc *goquery.Document, profile *models.AuthorProfile) {
	var years []int
	doc.Find(yearLabelSelector).Each(func(_ int, s *goquery.Selection) {
		if y := atoi(s.Text()); y != nil {
			years = append(years, *y)
		}
	})
	if len(years) == 0 {
		profile.CitesPerYear = nil
		return
	}

	series := make(models.CitationSeries, len(years))
	for i, y := range years {
		series[i] = models.YearCount{Year: y}
	}

	doc.Find(yearBarSelector).Each(func(_ int, s *goquery.Selection) {
		m := reZIndex.FindStringSubmatch(s.AttrOr("style", ""))
		if m == nil {
			return
		}
		pos, err := strconv.Atoi(m[1])
		if err != nil || pos < 1 || pos > len(series) {
			return
		}
		if v := atoi(s.Find(barValueSelector).Text()); v != nil {
			series[len(series)-pos].Count = *v
		}
	})

	profile.CitesPerYear = series
}
