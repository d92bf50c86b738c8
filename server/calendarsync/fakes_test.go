package calendarsync

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
)

type call struct {
	op         string
	calendarID string
	eventID    string
	event      *calendar.Event
}

// fakeCalendar records every call, failAt makes the n-th call of an op (1-based) fail
type fakeCalendar struct {
	calls    []call
	existing []*calendar.Event
	failAt   map[string]int
	counts   map[string]int
}

func newFakeCalendar(existing ...*calendar.Event) *fakeCalendar {
	return &fakeCalendar{existing: existing, failAt: map[string]int{}, counts: map[string]int{}}
}

func (f *fakeCalendar) fail(op string) error {
	f.counts[op]++
	if n, ok := f.failAt[op]; ok && n == f.counts[op] {
		return fmt.Errorf("%v failed: quota exceeded", op)
	}
	return nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, calendarID string, e *calendar.Event) (*calendar.Event, error) {
	f.calls = append(f.calls, call{op: "create", calendarID: calendarID, event: e})
	if err := f.fail("create"); err != nil {
		return nil, err
	}
	created := *e
	created.Id = fmt.Sprintf("created-%d", f.counts["create"])
	created.HtmlLink = "https://calendar.google.com/event?eid=" + created.Id
	return &created, nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context, calendarID string) ([]*calendar.Event, error) {
	f.calls = append(f.calls, call{op: "list", calendarID: calendarID})
	if err := f.fail("list"); err != nil {
		return nil, err
	}
	return f.existing, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	f.calls = append(f.calls, call{op: "delete", calendarID: calendarID, eventID: eventID})
	return f.fail("delete")
}

func (f *fakeCalendar) ops(op string) []call {
	var res []call
	for _, c := range f.calls {
		if c.op == op {
			res = append(res, c)
		}
	}
	return res
}

type sheetCall struct {
	op   string
	rng  string
	rows [][]interface{}
}

type fakeSheet struct {
	calls    []sheetCall
	existing [][]interface{}
	err      error
}

func (f *fakeSheet) ReadRows(ctx context.Context, rng string) ([][]interface{}, error) {
	f.calls = append(f.calls, sheetCall{op: "read", rng: rng})
	return f.existing, f.err
}

func (f *fakeSheet) EnsureTab(ctx context.Context, tab string, header []interface{}) error {
	f.calls = append(f.calls, sheetCall{op: "ensure", rng: tab, rows: [][]interface{}{header}})
	return f.err
}

func (f *fakeSheet) WriteRows(ctx context.Context, rng string, rows [][]interface{}) error {
	f.calls = append(f.calls, sheetCall{op: "write", rng: rng, rows: rows})
	return f.err
}

func (f *fakeSheet) AppendRows(ctx context.Context, rng string, rows [][]interface{}) error {
	f.calls = append(f.calls, sheetCall{op: "append", rng: rng, rows: rows})
	return f.err
}

func (f *fakeSheet) ClearRange(ctx context.Context, rng string) error {
	f.calls = append(f.calls, sheetCall{op: "clear", rng: rng})
	return f.err
}
