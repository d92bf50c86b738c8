package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots(t *testing.T) {
	day := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	slots := Slots(day, "")
	require.Len(t, slots, 24)

	assert.Equal(t, "HTML", slots[0].Title)
	assert.Equal(t, "2024-01-01T00:00:00", slots[0].Start)
	assert.Equal(t, "2024-01-01T00:30:00", slots[0].End)
	assert.Equal(t, DefaultTimeZone, slots[0].TimeZone)

	assert.Equal(t, "Docker", slots[23].Title)
	assert.Equal(t, "2024-01-01T23:00:00", slots[23].Start)
	assert.Equal(t, "https://www.youtube.com/results?search_query=Docker%20in%20English", slots[23].YoutubeEnglish)

	assert.Equal(t, "UTC", Slots(day, "UTC")[5].TimeZone)
}

func TestSearchLink(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/results?search_query=Tailwind%20CSS%20in%20Hindi", SearchLink("Tailwind CSS", "Hindi"))
	assert.Equal(t, "https://www.youtube.com/results?search_query=C%2B%2B%20in%20English", SearchLink("C++", "English"))
}

func TestFromRow(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	e := FromRow([]interface{}{"04:00 - 04:30", "React", "https://hi"}, day, "")
	assert.Equal(t, "React", e.Title)
	assert.Equal(t, "2024-03-05T04:00:00", e.Start)
	assert.Equal(t, "2024-03-05T04:30:00", e.End)
	assert.Equal(t, "https://hi", e.YoutubeHindi)
	assert.Equal(t, SearchLink("React", "English"), e.YoutubeEnglish)

	e = FromRow(nil, day, "UTC")
	assert.Equal(t, "2024-03-05T00:00:00", e.Start)
	assert.Equal(t, "2024-03-05T01:00:00", e.End)
	assert.Equal(t, "UTC", e.TimeZone)
	assert.Equal(t, "", e.Title)
}
