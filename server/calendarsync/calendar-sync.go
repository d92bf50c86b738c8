package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabzim/slotsync/server/gsheets"
	"github.com/gabzim/slotsync/server/targets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

const (
	ActionAdd       = "add"
	ActionAddAll    = "addAll"
	ActionRemove    = "remove"
	ActionRemoveAll = "removeAll"
)

var SheetHeader = []interface{}{"Start - End", "Title", "YouTube Hindi", "YouTube English"}

var (
	remoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotsync_remote_calls_total",
		Help: "Calls made to google calendar and sheets by the bulk writer",
	}, []string{"op", "result"})

	batches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotsync_batches_total",
		Help: "Sync requests handled by the bulk writer, by action and outcome",
	}, []string{"action", "result"})
)

// Calendar is the slice of google calendar the writer talks to, see gcal.Client
type Calendar interface {
	CreateEvent(ctx context.Context, calendarID string, e *calendar.Event) (*calendar.Event, error)
	ListEvents(ctx context.Context, calendarID string) ([]*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Spreadsheet is the companion sheet, see gsheets.Client
type Spreadsheet interface {
	EnsureTab(ctx context.Context, tab string, header []interface{}) error
	ReadRows(ctx context.Context, rng string) ([][]interface{}, error)
	WriteRows(ctx context.Context, rng string, rows [][]interface{}) error
	AppendRows(ctx context.Context, rng string, rows [][]interface{}) error
	ClearRange(ctx context.Context, rng string) error
}

type Config struct {
	// WithSheetSync mirrors every calendar write into the tab named after the target
	WithSheetSync   bool
	DefaultDuration time.Duration
	MinDuration     time.Duration
}

// Request is the body of a sync call. Events is left nil when the field is absent, an empty array is a valid (empty) batch.
type Request struct {
	Action string  `json:"action"`
	Event  *Event  `json:"event,omitempty"`
	Events []Event `json:"events"`
}

type Result struct {
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// PartialError is returned when a remote call fails in the middle of a batch.
// Done writes were already committed and are not rolled back.
type PartialError struct {
	Action string
	Done   int
	Total  int
	Err    error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%v stopped after %d of %d: %v", e.Action, e.Done, e.Total, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Writer performs one remote write per event, sequentially and in input order.
// There's no retry and no compensation: a failure aborts the rest of the batch and leaves what was written in place.
type Writer struct {
	log    *zap.SugaredLogger
	cal    Calendar
	sheets Spreadsheet
	cfg    Config
}

func NewWriter(logger *zap.SugaredLogger, cal Calendar, sheets Spreadsheet, cfg Config) (*Writer, error) {
	if cal == nil {
		return nil, fmt.Errorf("a calendar is required")
	}
	if cfg.WithSheetSync && sheets == nil {
		return nil, fmt.Errorf("sheet sync enabled but no spreadsheet configured")
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultDuration
	}
	if cfg.MinDuration <= 0 {
		cfg.MinDuration = MinDuration
	}
	l := logger.With("service", "BulkWriter", "sheetSync", cfg.WithSheetSync)
	return &Writer{log: l, cal: cal, sheets: sheets, cfg: cfg}, nil
}

func (w *Writer) WithSheetSync() bool {
	return w.cfg.WithSheetSync
}

// Apply dispatches req to the operation named by its action
func (w *Writer) Apply(ctx context.Context, target targets.Target, req *Request) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch req.Action {
	case ActionAdd:
		if req.Event == nil {
			err = fmt.Errorf("%w: missing event", ErrInvalidEvent)
			break
		}
		res, err = w.Add(ctx, target, *req.Event)
	case ActionAddAll:
		if req.Events == nil {
			err = fmt.Errorf("%w: events must be an array", ErrInvalidEvent)
			break
		}
		res, err = w.AddAll(ctx, target, req.Events)
	case ActionRemove:
		if req.Event == nil {
			err = fmt.Errorf("%w: missing event", ErrInvalidEvent)
			break
		}
		res, err = w.Remove(ctx, target, *req.Event)
	case ActionRemoveAll:
		res, err = w.RemoveAll(ctx, target)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.Is(err, ErrInvalidEvent) || errors.Is(err, ErrInvalidAction) {
			outcome = "invalid"
		}
	}
	batches.WithLabelValues(req.Action, outcome).Inc()
	return res, err
}

// Add creates a single event
func (w *Writer) Add(ctx context.Context, target targets.Target, e Event) (*Result, error) {
	s, err := e.resolve(w.cfg.DefaultDuration, w.cfg.MinDuration)
	if err != nil {
		return nil, err
	}
	created, err := w.create(ctx, target, s)
	if err != nil {
		return nil, err
	}
	if w.cfg.WithSheetSync {
		if err := w.ensureTab(ctx, target); err != nil {
			return nil, err
		}
		err := w.sheetCall("append", func() error {
			return w.sheets.AppendRows(ctx, gsheets.Range(target.Name, "A", "D"), [][]interface{}{s.sheetRow()})
		})
		if err != nil {
			return nil, err
		}
	}
	return &Result{Message: "Event added successfully!", Link: created.HtmlLink}, nil
}

// AddAll validates every event up front, nothing is sent if any of them is invalid. Then creates them one by one.
func (w *Writer) AddAll(ctx context.Context, target targets.Target, events []Event) (*Result, error) {
	slots := make([]slot, 0, len(events))
	for i, e := range events {
		s, err := e.resolve(w.cfg.DefaultDuration, w.cfg.MinDuration)
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, e.Title, err)
		}
		slots = append(slots, s)
	}

	w.log.Infow("adding events", "calendar", target.CalendarID, "target", target.Name, "count", len(slots))
	for i, s := range slots {
		if _, err := w.create(ctx, target, s); err != nil {
			w.log.Errorw("batch aborted, earlier events stay in the calendar", "target", target.Name, "done", i, "total", len(slots), "error", err)
			return nil, &PartialError{Action: ActionAddAll, Done: i, Total: len(slots), Err: err}
		}
	}

	if !w.cfg.WithSheetSync {
		return &Result{Message: "All events added successfully!"}, nil
	}
	if err := w.ensureTab(ctx, target); err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		rows := make([][]interface{}, len(slots))
		for i, s := range slots {
			rows[i] = s.sheetRow()
		}
		rng := gsheets.Range(target.Name, "A2", "D"+strconv.Itoa(len(rows)+1))
		err := w.sheetCall("write", func() error {
			return w.sheets.WriteRows(ctx, rng, rows)
		})
		if err != nil {
			return nil, err
		}
	}
	return &Result{Message: "All events added to calendar and sheet updated successfully!"}, nil
}

// Remove deletes the remote copies of e, matched by title and start time. No match is not an error.
func (w *Writer) Remove(ctx context.Context, target targets.Target, e Event) (*Result, error) {
	s, err := e.resolve(w.cfg.DefaultDuration, w.cfg.MinDuration)
	if err != nil {
		return nil, err
	}
	items, err := w.list(ctx, target)
	if err != nil {
		return nil, err
	}
	removed := 0
	for _, item := range items {
		if item.Id == "" || !s.matches(item) {
			continue
		}
		if err := w.delete(ctx, target, item.Id); err != nil {
			return nil, err
		}
		removed++
	}
	w.log.Infow("event removed", "target", target.Name, "title", s.Title, "matches", removed)

	if !w.cfg.WithSheetSync {
		return &Result{Message: "Event removed successfully!"}, nil
	}
	if err := w.removeRows(ctx, target, s); err != nil {
		return nil, err
	}
	return &Result{Message: "Event removed from calendar and sheet updated successfully!"}, nil
}

// removeRows drops the tab rows for s (same time range and title) and rewrites the rest from A2
func (w *Writer) removeRows(ctx context.Context, target targets.Target, s slot) error {
	var rows [][]interface{}
	err := w.sheetCall("read", func() error {
		var err error
		rows, err = w.sheets.ReadRows(ctx, gsheets.Range(target.Name, "A2", "D"))
		return err
	})
	if err != nil {
		return err
	}

	want := s.sheetRow()
	kept := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		if cellText(row, 0) == cellText(want, 0) && cellText(row, 1) == cellText(want, 1) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == len(rows) {
		return nil
	}

	err = w.sheetCall("clear", func() error {
		return w.sheets.ClearRange(ctx, gsheets.Range(target.Name, "A2", "D"))
	})
	if err != nil || len(kept) == 0 {
		return err
	}
	return w.sheetCall("write", func() error {
		return w.sheets.WriteRows(ctx, gsheets.Range(target.Name, "A2", "D"+strconv.Itoa(len(kept)+1)), kept)
	})
}

func cellText(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return fmt.Sprint(row[i])
}

// RemoveAll deletes everything in the target calendar. The first failed delete stops the loop.
func (w *Writer) RemoveAll(ctx context.Context, target targets.Target) (*Result, error) {
	items, err := w.list(ctx, target)
	if err != nil {
		return nil, err
	}

	w.log.Infow("removing all events", "calendar", target.CalendarID, "target", target.Name, "count", len(items))
	done := 0
	for _, item := range items {
		if item.Id == "" {
			continue
		}
		if err := w.delete(ctx, target, item.Id); err != nil {
			w.log.Errorw("removal aborted, calendar partially cleared", "target", target.Name, "done", done, "total", len(items), "error", err)
			return nil, &PartialError{Action: ActionRemoveAll, Done: done, Total: len(items), Err: err}
		}
		done++
	}

	if !w.cfg.WithSheetSync {
		return &Result{Message: "All events removed successfully!"}, nil
	}
	err = w.sheetCall("clear", func() error {
		return w.sheets.ClearRange(ctx, gsheets.Range(target.Name, "A2", "D"))
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "All events removed from calendar and sheet cleared successfully!"}, nil
}

func (w *Writer) create(ctx context.Context, target targets.Target, s slot) (*calendar.Event, error) {
	created, err := w.cal.CreateEvent(ctx, target.CalendarID, s.toCalendarEvent())
	observe("create", err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (w *Writer) list(ctx context.Context, target targets.Target) ([]*calendar.Event, error) {
	items, err := w.cal.ListEvents(ctx, target.CalendarID)
	observe("list", err)
	return items, err
}

func (w *Writer) delete(ctx context.Context, target targets.Target, eventID string) error {
	err := w.cal.DeleteEvent(ctx, target.CalendarID, eventID)
	observe("delete", err)
	return err
}

func (w *Writer) ensureTab(ctx context.Context, target targets.Target) error {
	return w.sheetCall("ensure_tab", func() error {
		return w.sheets.EnsureTab(ctx, target.Name, SheetHeader)
	})
}

func (w *Writer) sheetCall(op string, call func() error) error {
	err := call()
	observe("sheet_"+op, err)
	return err
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	remoteCalls.WithLabelValues(op, result).Inc()
}
