package news

import (
	"context"
	"fmt"
	"time"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// DayWindow is the UTC day bucket [Start, End) that lies daysAgo days
// before now.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a unix timestamp falls inside the window.
func (w DayWindow) Contains(unix int64) bool {
	t := time.Unix(unix, 0).UTC()
	return !t.Before(w.Start) && t.Before(w.End)
}

func dayWindow(now time.Time, daysAgo int) DayWindow {
	start := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -daysAgo)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// ByDate returns stories whose creation time falls within the UTC day
// bucket daysAgo days before now, in upstream (recency) order. The
// candidate pool is the new-story list, bounded by the configured pool
// size; when the pool does not reach back far enough the result
// under-counts rather than erroring. That approximation is inherent:
// the upstream exposes no date-range query.
func (s *Service) ByDate(ctx context.Context, daysAgo, limit int) ([]model.Item, error) {
	if daysAgo < 0 {
		return nil, fmt.Errorf("%w: days_ago must not be negative", ErrInvalidArgument)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidArgument)
	}
	if limit == 0 {
		limit = s.opts.ListLimit
	}
	window := dayWindow(s.now(), daysAgo)

	ids, err := s.fetcher.List(ctx, hn.ListNew)
	if err != nil {
		return nil, err
	}
	if s.opts.DatePool < len(ids) {
		ids = ids[:s.opts.DatePool]
	}
	resolved, err := s.resolveAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Item, 0, limit)
	for _, it := range resolved {
		if it == nil || it.Deleted || it.Dead || it.Type != "story" {
			continue
		}
		if !window.Contains(it.Time) {
			continue
		}
		matched = append(matched, *it)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}
