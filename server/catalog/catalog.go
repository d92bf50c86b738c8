package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gabzim/slotsync/server/calendarsync"
)

const (
	DefaultTimeZone = "Asia/Kolkata"
	EmptySlot       = "Empty Slot"
)

// Titles is the fixed catalog, slot i starts at hour i
var Titles = []string{
	"HTML",
	"CSS",
	"JavaScript",
	"TypeScript",
	"React",
	"Next.js",
	"Vue.js",
	"Angular",
	"Svelte",
	"Tailwind CSS",
	"Bootstrap",
	"Node.js",
	"Express.js",
	"Django",
	"Flask",
	"Spring Boot",
	"GraphQL",
	"REST API",
	"MongoDB",
	"PostgreSQL",
	"MySQL",
	"Firebase",
	"AWS",
	"Docker",
}

// Slots builds the catalog for the given day: one 30 minute event per title, on the hour, in timeZone
func Slots(day time.Time, timeZone string) []calendarsync.Event {
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	date := day.Format("2006-01-02")
	events := make([]calendarsync.Event, len(Titles))
	for i, title := range Titles {
		events[i] = calendarsync.Event{
			Title:          title,
			Start:          fmt.Sprintf("%sT%02d:00:00", date, i),
			End:            fmt.Sprintf("%sT%02d:30:00", date, i),
			TimeZone:       timeZone,
			YoutubeHindi:   SearchLink(title, "Hindi"),
			YoutubeEnglish: SearchLink(title, "English"),
		}
	}
	return events
}

// SearchLink is the youtube search for title in language
func SearchLink(title, language string) string {
	q := url.QueryEscape(title + " in " + language)
	return "https://www.youtube.com/results?search_query=" + strings.ReplaceAll(q, "+", "%20")
}

// FromRow turns a sheet row (time range, title, hindi link, english link) back into an event on day.
// Missing cells get the same defaults the UI uses.
func FromRow(row []interface{}, day time.Time, timeZone string) calendarsync.Event {
	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	timeRange := cell(0)
	if timeRange == "" {
		timeRange = "00:00 - 01:00"
	}
	startTime, endTime, ok := strings.Cut(timeRange, " - ")
	if !ok {
		endTime = startTime
	}
	title := cell(1)
	hindi := cell(2)
	if hindi == "" {
		hindi = SearchLink(title, "Hindi")
	}
	english := cell(3)
	if english == "" {
		english = SearchLink(title, "English")
	}

	date := day.Format("2006-01-02")
	return calendarsync.Event{
		Title:          title,
		Start:          date + "T" + strings.TrimSpace(startTime) + ":00",
		End:            date + "T" + strings.TrimSpace(endTime) + ":00",
		TimeZone:       timeZone,
		YoutubeHindi:   hindi,
		YoutubeEnglish: english,
	}
}
