// Package watch wires the scrape → filter → detail → notify → persist cycle.
package watch

import (
	"context"
	"time"

	"ecebot/internal/archive"
	"ecebot/internal/state"
	"ecebot/pkg/logx"
)

// DetailFailPolicy decides what a failed detail fetch does to the rest of
// the cycle.
type DetailFailPolicy string

const (
	// AbortCycle stops processing the remaining rows of this cycle. This is
	// the historical behavior; the skipped rows are picked up again on the
	// next scan.
	AbortCycle DetailFailPolicy = "abort-cycle"
	// SkipRow drops only the failing row and keeps going.
	SkipRow DetailFailPolicy = "skip-row"
)

func ParsePolicy(s string) (DetailFailPolicy, bool) {
	switch DetailFailPolicy(s) {
	case "", AbortCycle:
		return AbortCycle, true
	case SkipRow:
		return SkipRow, true
	default:
		return "", false
	}
}

// Source fetches and parses the archive. Implemented by archive.Fetcher.
type Source interface {
	Archive(ctx context.Context) ([]archive.Row, error)
	Detail(ctx context.Context, url string) (string, error)
}

// Sender delivers one announcement. Implemented by notify.Notifier.
type Sender interface {
	Notify(ctx context.Context, a archive.Announcement) error
}

type Watcher struct {
	source Source
	filter *archive.Filter
	sender Sender
	seen   *state.SeenIDs
	store  state.Store
	policy DetailFailPolicy
	log    logx.Logger

	now func() time.Time
}

func New(source Source, filter *archive.Filter, sender Sender, seen *state.SeenIDs, store state.Store, policy DetailFailPolicy, log logx.Logger) *Watcher {
	if policy == "" {
		policy = AbortCycle
	}
	return &Watcher{
		source: source,
		filter: filter,
		sender: sender,
		seen:   seen,
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// Restore loads the persisted seen-id set, best-effort. Absence or failure
// is never fatal: the watcher starts with an empty set and re-notifies only
// what the date cutoff still admits.
func (w *Watcher) Restore(ctx context.Context) {
	ids, ok, err := w.store.Load(ctx)
	if err != nil {
		w.log.Warn("could not restore state; starting empty", logx.Err(err))
		return
	}
	if !ok {
		w.log.Info("no prior state snapshot; starting empty")
		return
	}
	w.seen.Replace(ids)
	w.log.Info("state restored", logx.Int("ids", len(ids)))
}

// Cycle runs one full polling pass. All failures are logged and absorbed;
// the next scheduled tick retries whatever is still eligible.
func (w *Watcher) Cycle(ctx context.Context) {
	rows, err := w.source.Archive(ctx)
	if err != nil {
		w.log.Error("archive scan failed", logx.Err(err))
		return
	}

	fresh := w.filter.SelectNew(rows, w.seen, w.now())
	if len(fresh) == 0 {
		w.log.Debug("no new announcements", logx.Int("rows", len(rows)))
		return
	}

	dirty := false
	for _, row := range fresh {
		desc, err := w.source.Detail(ctx, row.URL)
		if err != nil {
			w.log.Error("detail fetch failed", logx.Err(err), logx.Int64("id", row.ID))
			if w.policy == AbortCycle {
				break
			}
			continue
		}

		a := archive.Announcement{Row: row, Description: desc}
		if err := w.sender.Notify(ctx, a); err != nil {
			// Keep the id out of the seen set so the announcement is
			// retried on the next scan.
			w.log.Error("notification failed", logx.Err(err), logx.Int64("id", row.ID))
			continue
		}

		if w.seen.Add(row.ID) {
			dirty = true
		}
	}

	if dirty {
		if err := w.store.Save(ctx, w.seen.Snapshot()); err != nil {
			w.log.Warn("state save failed; set survives in memory only", logx.Err(err))
		}
	}
}
