package events

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/gabzim/slotsync/server/calendarsync"
)

// ReadEvents decodes events from i as they come. i holds either a json array of events or one event after the other.
// The channel closes at the end of the input, on the first bad event or when ctx is done, errs gets the decode error if any.
func ReadEvents(ctx context.Context, i io.Reader) (<-chan calendarsync.Event, <-chan error) {
	events := make(chan calendarsync.Event, 5)
	errs := make(chan error, 1)
	go func() {
		defer close(events)
		defer close(errs)

		r := bufio.NewReader(i)
		dec := json.NewDecoder(r)
		if first, err := peekNonSpace(r); err == nil && first == '[' {
			if _, err := dec.Token(); err != nil {
				errs <- err
				return
			}
		}
		for dec.More() {
			var e calendarsync.Event
			if err := dec.Decode(&e); err != nil {
				errs <- err
				return
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, errs
}

// ReadAll collects every event in i
func ReadAll(ctx context.Context, i io.Reader) ([]calendarsync.Event, error) {
	events, errs := ReadEvents(ctx, i)
	var all []calendarsync.Event
	for e := range events {
		all = append(all, e)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return all, ctx.Err()
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\n', '\r':
			r.ReadByte()
		default:
			return b[0], nil
		}
	}
}
