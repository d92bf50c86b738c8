package calendarsync

import (
	"errors"
	"fmt"
	"strings"
	"time"
	// event timezones have to resolve in scratch containers too
	_ "time/tzdata"

	"google.golang.org/api/calendar/v3"
)

const (
	DefaultDuration = 30 * time.Minute
	// MinDuration is what an event whose end is not after its start gets stretched to
	MinDuration = time.Minute
)

var (
	ErrInvalidEvent  = errors.New("INVALID_EVENT")
	ErrInvalidAction = errors.New("INVALID_ACTION")
)

// localLayouts are the accepted shapes for datetimes without an offset, they're read as wall clock time in the event's timezone
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Event is a time slot as the UI sends it
type Event struct {
	Title          string `json:"title"`
	Start          string `json:"start"`
	End            string `json:"end,omitempty"`
	TimeZone       string `json:"timeZone"`
	YoutubeHindi   string `json:"youtubeHindi,omitempty"`
	YoutubeEnglish string `json:"youtubeEnglish,omitempty"`
}

// slot is an Event whose times have been resolved to instants
type slot struct {
	Event
	loc   *time.Location
	start time.Time
	end   time.Time
}

func (e Event) missingFields() []string {
	var missing []string
	if strings.TrimSpace(e.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(e.Start) == "" {
		missing = append(missing, "start")
	}
	if strings.TrimSpace(e.TimeZone) == "" {
		missing = append(missing, "timeZone")
	}
	return missing
}

// resolve validates e and works out its start and end instants.
// A missing end becomes start+defaultDuration, an end that's not after start becomes start+minDuration.
func (e Event) resolve(defaultDuration, minDuration time.Duration) (slot, error) {
	if missing := e.missingFields(); len(missing) > 0 {
		return slot{}, fmt.Errorf("%w: missing required fields: %v", ErrInvalidEvent, strings.Join(missing, ", "))
	}
	loc, err := time.LoadLocation(e.TimeZone)
	if err != nil {
		return slot{}, fmt.Errorf("%w: unknown timeZone %q", ErrInvalidEvent, e.TimeZone)
	}
	start, err := parseTime(e.Start, loc)
	if err != nil {
		return slot{}, fmt.Errorf("%w: invalid start %q", ErrInvalidEvent, e.Start)
	}
	end := start.Add(defaultDuration)
	if e.End != "" {
		end, err = parseTime(e.End, loc)
		if err != nil {
			return slot{}, fmt.Errorf("%w: invalid end %q", ErrInvalidEvent, e.End)
		}
		if !end.After(start) {
			end = start.Add(minDuration)
		}
	}
	return slot{Event: e, loc: loc, start: start, end: end}, nil
}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (s slot) description() string {
	if s.YoutubeHindi == "" && s.YoutubeEnglish == "" {
		return ""
	}
	return fmt.Sprintf("Hindi: %s\nEnglish: %s", s.YoutubeHindi, s.YoutubeEnglish)
}

func (s slot) toCalendarEvent() *calendar.Event {
	return &calendar.Event{
		Summary:     s.Title,
		Description: s.description(),
		Start: &calendar.EventDateTime{
			DateTime: s.start.In(s.loc).Format(time.RFC3339),
			TimeZone: s.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: s.end.In(s.loc).Format(time.RFC3339),
			TimeZone: s.TimeZone,
		},
	}
}

// sheetRow is the positional row kept in the target's tab: time range, title and the two links
func (s slot) sheetRow() []interface{} {
	timeRange := s.start.In(s.loc).Format("15:04") + " - " + s.end.In(s.loc).Format("15:04")
	return []interface{}{timeRange, s.Title, s.YoutubeHindi, s.YoutubeEnglish}
}

// matches reports whether a listed calendar event is the remote copy of this slot
func (s slot) matches(e *calendar.Event) bool {
	if e.Summary != s.Title || e.Start == nil || e.Start.DateTime == "" {
		return false
	}
	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return false
	}
	return start.Equal(s.start)
}
