// Package snooze tracks targets the user has asked to hide from scans for a
// while. Snoozes are stored in snoozed.json in the state directory:
//
//	{"items": [{"target": "~/src/app/node_modules", "expires_at": "..."}]}
package snooze

import (
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/jsonfile"
)

// FileName is the snooze store inside the state directory.
const FileName = "snoozed.json"

// DefaultDays is how long a snooze lasts when no duration is given.
const DefaultDays = 14

// Accepted expires_at layouts. Timestamps without an offset are local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Entry is one persisted snooze.
type Entry struct {
	Target    string `json:"target"`
	ExpiresAt string `json:"expires_at"`
}

type document struct {
	Items []Entry `json:"items"`
}

// Registry is the set of snoozes active at load time.
type Registry struct {
	now     time.Time
	expires map[string]time.Time
}

// Empty returns a registry with no snoozes.
func Empty(now time.Time) *Registry {
	return &Registry{now: now, expires: make(map[string]time.Time)}
}

// Load reads the snooze store. A missing or corrupt store yields an empty
// registry; a corrupt store is logged as a warning. Entries without a target
// or with an unreadable timestamp are dropped, as are expired ones.
func Load(path string, now time.Time, log logrus.FieldLogger) *Registry {
	r := Empty(now)
	var doc document
	if err := jsonfile.Read(path, &doc); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warn("ignoring unreadable snooze store")
		}
		return r
	}
	for _, e := range doc.Items {
		target := strings.TrimSpace(e.Target)
		if target == "" {
			continue
		}
		exp, ok := ParseTime(e.ExpiresAt)
		if !ok {
			log.WithField("target", target).Debug("skipping snooze with bad expires_at")
			continue
		}
		if exp.After(now) {
			r.expires[target] = exp
		}
	}
	return r
}

// ParseTime parses an expires_at value.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsSnoozed reports whether target has an active snooze.
func (r *Registry) IsSnoozed(target string) bool {
	if r == nil {
		return false
	}
	_, ok := r.expires[target]
	return ok
}

// Len returns the number of active snoozes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.expires)
}

// Add snoozes target for days days from the registry's clock, replacing
// any existing snooze. Non-positive days use DefaultDays.
func (r *Registry) Add(target string, days int) time.Time {
	if days <= 0 {
		days = DefaultDays
	}
	exp := r.now.AddDate(0, 0, days)
	r.expires[target] = exp
	return exp
}

// Remove clears the snooze on target and reports whether one existed.
func (r *Registry) Remove(target string) bool {
	_, ok := r.expires[target]
	delete(r.expires, target)
	return ok
}

// Entries returns the active snoozes ordered by expiry, then target.
func (r *Registry) Entries() []Entry {
	type kv struct {
		target string
		exp    time.Time
	}
	all := make([]kv, 0, len(r.expires))
	for t, e := range r.expires {
		all = append(all, kv{t, e})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].exp.Equal(all[j].exp) {
			return all[i].exp.Before(all[j].exp)
		}
		return all[i].target < all[j].target
	})
	out := make([]Entry, len(all))
	for i, x := range all {
		out[i] = Entry{Target: x.target, ExpiresAt: x.exp.Format(time.RFC3339)}
	}
	return out
}

// Save writes the active snoozes to path. Expired snoozes are not kept.
func (r *Registry) Save(path string) error {
	return jsonfile.Write(path, document{Items: r.Entries()})
}
