package targets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrUnknownTarget = errors.New("UNKNOWN_TARGET")
	ErrMalformedList = errors.New("MALFORMED_TARGET_LIST")
)

// Target is a named remote calendar, the tab named after it is the companion sheet.
type Target struct {
	Name       string
	CalendarID string
}

// Registry maps the names users pick in the UI to calendar IDs. It is built once at startup and never mutated.
type Registry struct {
	defaultName string
	ids         map[string]string
}

type targetsFile struct {
	Default   string            `toml:"default"`
	Calendars map[string]string `toml:"calendars"`
}

// New returns a registry over ids, names with an empty id are ignored
func New(defaultName string, ids map[string]string) *Registry {
	r := &Registry{defaultName: defaultName, ids: make(map[string]string, len(ids))}
	for name, id := range ids {
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if name == "" || id == "" {
			continue
		}
		r.ids[name] = id
	}
	return r
}

// LoadFile reads a toml file shaped like:
//
//	default = "Vivek"
//	[calendars]
//	Vivek = "abc@group.calendar.google.com"
//
// defaultName, when set, wins over the file's default.
func LoadFile(path, defaultName string) (*Registry, error) {
	var f targetsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("could not read targets file %v: %w", path, err)
	}
	if defaultName == "" {
		defaultName = f.Default
	}
	return New(defaultName, f.Calendars), nil
}

// ParseList parses "Name=calendarId,Other=calendarId"
func ParseList(list string) (map[string]string, error) {
	ids := make(map[string]string)
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, id, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedList, pair)
		}
		ids[strings.TrimSpace(name)] = strings.TrimSpace(id)
	}
	return ids, nil
}

// Resolve returns the target for name. An empty name means the default, an unknown name falls back to the default target.
func (r *Registry) Resolve(name string) (Target, error) {
	if name == "" {
		name = r.defaultName
	}
	if id, ok := r.ids[name]; ok {
		return Target{Name: name, CalendarID: id}, nil
	}
	if id, ok := r.ids[r.defaultName]; ok {
		return Target{Name: r.defaultName, CalendarID: id}, nil
	}
	return Target{}, fmt.Errorf("%w: no calendar configured for %q and no default", ErrUnknownTarget, name)
}

// Lookup is like Resolve but never falls back, it's used when the name also picks a sheet tab
func (r *Registry) Lookup(name string) (Target, error) {
	if name == "" {
		name = r.defaultName
	}
	id, ok := r.ids[name]
	if !ok {
		return Target{}, fmt.Errorf("%w: invalid or missing calendar ID for %v, expected one of: %v", ErrUnknownTarget, name, strings.Join(r.Names(), ", "))
	}
	return Target{Name: name, CalendarID: id}, nil
}

// Names returns every configured target name, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ids))
	for name := range r.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultName() string {
	return r.defaultName
}

func (r *Registry) Len() int {
	return len(r.ids)
}
