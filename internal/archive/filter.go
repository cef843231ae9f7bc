package archive

import (
	"time"

	"ecebot/internal/greektext"
	"ecebot/pkg/logx"
)

// SeenSet is the dedupe check the filter consults. Implemented by
// state.SeenIDs; tests use plain map-backed fakes.
type SeenSet interface {
	Contains(id int64) bool
}

// Filter applies the acceptance rules to parsed archive rows.
type Filter struct {
	keywords *greektext.KeywordSet
	maxAge   time.Duration
	log      logx.Logger
}

// NewFilter builds a filter. maxAge is the cutoff past which a row and
// everything below it are no longer considered.
func NewFilter(keywords *greektext.KeywordSet, maxAge time.Duration, log logx.Logger) *Filter {
	return &Filter{keywords: keywords, maxAge: maxAge, log: log}
}

// SelectNew walks rows in order (newest first) and returns the ones that are
// new, recognized announcements, preserving order.
//
// The date check is a hard stop, not a skip: rows are date-descending, so the
// first row older than the cutoff means every remaining row is older still.
func (f *Filter) SelectNew(rows []Row, seen SeenSet, now time.Time) []Row {
	var out []Row
	for _, row := range rows {
		if now.Sub(row.Date) > f.maxAge {
			break
		}
		if seen.Contains(row.ID) {
			continue
		}
		if !row.Category.Known() {
			continue
		}
		// Department-internal rows pass only on a keyword hit; the other
		// categories pass unconditionally.
		if row.Category == CategoryDepartment && !f.keywords.Match(greektext.Upper(row.Title)) {
			f.log.Debug("department row without keyword match", logx.Int64("id", row.ID), logx.String("title", row.Title))
			continue
		}
		out = append(out, row)
	}
	return out
}
