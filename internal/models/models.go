package models

// YearCount is one point of a citation series.
type YearCount struct {
	Year  int `bson:"year"`
	Count int `bson:"count"`
}

// CitationSeries is ordered oldest to newest in the order the profile lists it.
type CitationSeries []YearCount

// LastYear returns the year of the final entry.
func (s CitationSeries) LastYear() (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].Year, true
}

type CoAuthor struct {
	Name string `bson:"name"`
}

// AuthorProfile is a scraped author profile. Nil fields were absent on the page.
type AuthorProfile struct {
	ScholarID   string
	Name        string
	Affiliation *string
	Interests   []string
	PictureURL  *string

	CitedBy      *int
	CitedBy5y    *int
	HIndex       *int
	HIndex5y     *int
	I10Index     *int
	I10Index5y   *int
	CoAuthors    []CoAuthor
	CitesPerYear CitationSeries

	// Filled lists the sections fetched so far.
	Filled []string
}

// CitationStats are the derived statistics written next to the raw series.
type CitationStats struct {
	FirstTenYears    int `bson:"first_ten_years"`
	TenYearsSince100 int `bson:"ten_years_since_100"`
	TenYearsSince500 int `bson:"ten_years_since_500"`
	YearsSinceLast   int `bson:"years_since_last"`
}

// AuthorRecord mirrors a persisted author folder.
type AuthorRecord struct {
	ID           string         `bson:"_id"`
	Name         string         `bson:"name"`
	Affiliation  string         `bson:"affiliation,omitempty"`
	Interests    []string       `bson:"interests,omitempty"`
	CitedBy      *int           `bson:"cited_by,omitempty"`
	CitedBy5y    *int           `bson:"cited_by_5y,omitempty"`
	HIndex       *int           `bson:"h_index,omitempty"`
	HIndex5y     *int           `bson:"h_index_5y,omitempty"`
	I10Index     *int           `bson:"i10_index,omitempty"`
	I10Index5y   *int           `bson:"i10_index_5y,omitempty"`
	CoAuthors    []CoAuthor     `bson:"co_authors,omitempty"`
	CitesPerYear CitationSeries `bson:"cites_per_year"`
	Stats        CitationStats  `bson:"stats"`
	Directory    string         `bson:"directory"`
	HasPicture   bool           `bson:"has_picture"`
	ProfileURL   string         `bson:"profile_url"`
	LastScraped  int64          `bson:"last_scraped"`
	ScrapedCount int            `bson:"scraped_count,omitempty"`
}

// PageVisit is one listing page fetched by the paginator.
type PageVisit struct {
	URL         string `bson:"url"`
	Phase       string `bson:"phase"` // skip or load
	Number      int    `bson:"number"`
	AuthorLinks int    `bson:"author_links"`
	Saved       int    `bson:"saved"`
	Failed      int    `bson:"failed"`
	NextURL     string `bson:"next_url,omitempty"`
	Timestamp   int64  `bson:"timestamp"`
}
