package db

import (
	"testing"

	"scholar_spider/internal/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAuthorUpdate(t *testing.T) {
	h := 12
	record := &models.AuthorRecord{
		ID:           "AAA111",
		Name:         "Alice Anderson",
		HIndex:       &h,
		HIndex5y:     &h,
		ScrapedCount: 4,
		CitesPerYear: models.CitationSeries{{Year: 2020, Count: 3}},
		Stats:        models.CitationStats{FirstTenYears: 3},
	}

	update, err := AuthorUpdate(record)
	require.NoError(t, err)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	require.NotContains(t, set, "_id")
	require.Equal(t, "Alice Anderson", set["name"])
	require.EqualValues(t, 12, set["h_index"])
	require.EqualValues(t, 12, set["h_index_5y"])
	require.NotContains(t, set, "cited_by")
	require.NotContains(t, set, "scraped_count")
	require.Equal(t, bson.M{"scraped_count": 1}, update["$inc"])
}
