package orchestrator

import (
	"context"
	"sync"

	"github.com/gabzim/slotsync/server/calendarsync"
	log "github.com/sirupsen/logrus"
)

// Syncer sends one action to the api, see api.Client
type Syncer interface {
	Sync(ctx context.Context, name string, req *calendarsync.Request) (*calendarsync.Result, error)
}

// Orchestrator keeps the slots the user picked and pushes every change to the api as it happens.
// The selection is a local view: it flips whether or not the remote call went through, so it can drift
// from what the calendar holds.
type Orchestrator struct {
	mu       sync.Mutex
	syncer   Syncer
	target   string
	catalog  []calendarsync.Event
	selected map[string]bool
	log      *log.Entry
}

func New(syncer Syncer, target string, catalog []calendarsync.Event) *Orchestrator {
	return &Orchestrator{
		syncer:   syncer,
		target:   target,
		catalog:  catalog,
		selected: make(map[string]bool),
		log:      log.WithField("target", target),
	}
}

func key(e calendarsync.Event) string {
	return e.Title + "|" + e.Start
}

func (o *Orchestrator) Catalog() []calendarsync.Event {
	return o.catalog
}

func (o *Orchestrator) IsSelected(e calendarsync.Event) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selected[key(e)]
}

// Toggle adds e when it isn't selected and removes it when it is. The selection flips before the call
// so a failed call still leaves it flipped, the error is for the caller to show.
func (o *Orchestrator) Toggle(ctx context.Context, e calendarsync.Event) (*calendarsync.Result, error) {
	o.mu.Lock()
	k := key(e)
	action := calendarsync.ActionAdd
	if o.selected[k] {
		action = calendarsync.ActionRemove
		delete(o.selected, k)
	} else {
		o.selected[k] = true
	}
	o.mu.Unlock()

	ev := e
	return o.send(ctx, &calendarsync.Request{Action: action, Event: &ev})
}

// AddAll selects the whole catalog and sends it as a single batch
func (o *Orchestrator) AddAll(ctx context.Context) (*calendarsync.Result, error) {
	o.mu.Lock()
	for _, e := range o.catalog {
		o.selected[key(e)] = true
	}
	events := make([]calendarsync.Event, len(o.catalog))
	copy(events, o.catalog)
	o.mu.Unlock()

	return o.send(ctx, &calendarsync.Request{Action: calendarsync.ActionAddAll, Events: events})
}

// RemoveAll clears the selection and asks the api to empty the calendar
func (o *Orchestrator) RemoveAll(ctx context.Context) (*calendarsync.Result, error) {
	o.mu.Lock()
	o.selected = make(map[string]bool)
	o.mu.Unlock()

	return o.send(ctx, &calendarsync.Request{Action: calendarsync.ActionRemoveAll})
}

// Selected returns the picked slots in catalog order
func (o *Orchestrator) Selected() []calendarsync.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var picked []calendarsync.Event
	for _, e := range o.catalog {
		if o.selected[key(e)] {
			picked = append(picked, e)
		}
	}
	return picked
}

func (o *Orchestrator) send(ctx context.Context, req *calendarsync.Request) (*calendarsync.Result, error) {
	res, err := o.syncer.Sync(ctx, o.target, req)
	if err != nil {
		o.log.WithField("action", req.Action).Errorf("sync failed, selection kept as is: %v", err)
		return nil, err
	}
	o.log.WithField("action", req.Action).Info(res.Message)
	return res, nil
}
