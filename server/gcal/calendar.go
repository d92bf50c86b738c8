package gcal

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// LoadCredentials reads a service account key file and scopes it for the given APIs
func LoadCredentials(ctx context.Context, path string, scopes ...string) (*google.Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key %v: %w", path, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}
	return creds, nil
}

// Client is a thin wrapper around the calendar service exposing only what the bulk writer needs.
// A *calendar.Service is safe for concurrent use, so a single Client is shared across requests.
type Client struct {
	srv *calendar.Service
	log *zap.SugaredLogger
}

func NewClient(ctx context.Context, log *zap.SugaredLogger, opts ...option.ClientOption) (*Client, error) {
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{srv: srv, log: log.With("client", "GoogleCalendar")}, nil
}

// CreateEvent inserts e into the calendar and returns the event as stored by google (with its id and htmlLink)
func (c *Client) CreateEvent(ctx context.Context, calendarID string, e *calendar.Event) (*calendar.Event, error) {
	created, err := c.srv.Events.Insert(calendarID, e).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event %q: %w", e.Summary, err)
	}
	c.log.Debugw("event created", "calendar", calendarID, "id", created.Id, "summary", created.Summary)
	return created, nil
}

// ListEvents retrieves every event in the calendar, following page tokens until google says there are no more
func (c *Client) ListEvents(ctx context.Context, calendarID string) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := c.srv.Events.
		List(calendarID).
		MaxResults(2500).
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	c.log.Debugw("events listed", "calendar", calendarID, "count", len(items))
	return items, nil
}

func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.srv.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete event %v: %w", eventID, err)
	}
	c.log.Debugw("event deleted", "calendar", calendarID, "id", eventID)
	return nil
}
