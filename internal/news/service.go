// Package news reshapes upstream Hacker News data: list resolution,
// title search, comment-tree assembly, and date filtering. Every
// operation is a pure read built fresh per call; nothing is cached
// across requests.
package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// ErrInvalidArgument marks requests rejected before any outbound call.
var ErrInvalidArgument = errors.New("invalid argument")

// Options tunes pool sizes and fan-out. Zero values fall back to the
// defaults below.
type Options struct {
	// FanoutWidth caps concurrent outbound fetches per request.
	FanoutWidth int
	// ListLimit is the default number of items for list operations.
	ListLimit int
	// SearchPool is the candidate pool size for title search.
	SearchPool int
	// DatePool is the candidate pool size for date filtering. If it
	// does not reach back far enough, results under-count; that is a
	// documented approximation, not an error.
	DatePool int
	// CommentLimit is the default per-level comment budget.
	CommentLimit int
	// MaxDepth is the default number of reply levels below the top
	// level of a comment tree.
	MaxDepth int
}

func (o *Options) fill() {
	if o.FanoutWidth <= 0 {
		o.FanoutWidth = 8
	}
	if o.ListLimit <= 0 {
		o.ListLimit = 30
	}
	if o.SearchPool <= 0 {
		o.SearchPool = 200
	}
	if o.DatePool <= 0 {
		o.DatePool = 500
	}
	if o.CommentLimit <= 0 {
		o.CommentLimit = 10
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 2
	}
}

// Service composes the upstream fetcher into the read operations the
// transports expose. Stateless; safe for concurrent use.
type Service struct {
	fetcher hn.Fetcher
	opts    Options
	scorer  TitleScorer

	// now is swappable in tests.
	now func() time.Time
}

// NewService wraps a fetcher. The default title scorer is
// OverlapScorer.
func NewService(fetcher hn.Fetcher, opts Options) *Service {
	opts.fill()
	return &Service{
		fetcher: fetcher,
		opts:    opts,
		scorer:  OverlapScorer{},
		now:     time.Now,
	}
}

// SetScorer replaces the title-matching strategy.
func (s *Service) SetScorer(scorer TitleScorer) {
	if scorer != nil {
		s.scorer = scorer
	}
}

// Item resolves one item by id.
func (s *Service) Item(ctx context.Context, id int) (model.Item, error) {
	if id <= 0 {
		return model.Item{}, fmt.Errorf("%w: item id must be positive", ErrInvalidArgument)
	}
	return s.fetcher.Item(ctx, id)
}

// User resolves one user by username.
func (s *Service) User(ctx context.Context, username string) (model.User, error) {
	if strings.TrimSpace(username) == "" {
		return model.User{}, fmt.Errorf("%w: username required", ErrInvalidArgument)
	}
	return s.fetcher.User(ctx, username)
}

// MaxItem returns the current largest item id.
func (s *Service) MaxItem(ctx context.Context) (int, error) {
	return s.fetcher.MaxItem(ctx)
}

// Updates returns the latest changed items and profiles.
func (s *Service) Updates(ctx context.Context) (model.Updates, error) {
	return s.fetcher.Updates(ctx)
}

// ListIDs returns the first limit ids of a list kind, preserving
// upstream order. limit 0 means the default; negative limits are
// rejected. Larger limits clamp to the upstream list length.
func (s *Service) ListIDs(ctx context.Context, kind hn.ListKind, limit int) ([]int, error) {
	limit, err := s.listLimit(kind, limit)
	if err != nil {
		return nil, err
	}
	ids, err := s.fetcher.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

// Stories resolves the first limit items of a list kind. Entries that
// fail to resolve, or that arrive deleted/dead, are omitted rather than
// failing the batch; the survivors keep upstream order.
func (s *Service) Stories(ctx context.Context, kind hn.ListKind, limit int) ([]model.Item, error) {
	ids, err := s.ListIDs(ctx, kind, limit)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(ids))
	for _, it := range resolved {
		if it == nil || it.Deleted || it.Dead {
			continue
		}
		items = append(items, *it)
	}
	return items, nil
}

func (s *Service) listLimit(kind hn.ListKind, limit int) (int, error) {
	cap := kind.Cap()
	if cap == 0 {
		return 0, fmt.Errorf("%w: unknown list kind %q", ErrInvalidArgument, kind)
	}
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", ErrInvalidArgument)
	case limit == 0:
		limit = s.opts.ListLimit
	}
	if limit > cap {
		limit = cap
	}
	return limit, nil
}

// resolveAll fetches ids concurrently with bounded width and returns
// the results in input order. Unresolvable ids yield nil slots; only a
// cancelled context aborts the whole batch.
func (s *Service) resolveAll(ctx context.Context, ids []int) ([]*model.Item, error) {
	out := make([]*model.Item, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FanoutWidth)
	for i, id := range ids {
		i, id := i, id // per-iteration copies; module targets go 1.21
		g.Go(func() error {
			item, err := s.fetcher.Item(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil // omit and continue
			}
			out[i] = &item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &hn.UpstreamError{Op: "resolve", Err: err}
	}
	return out, nil
}

// resolveMap is resolveAll keyed by id, for callers that dispatch
// results to multiple consumers.
func (s *Service) resolveMap(ctx context.Context, ids []int) (map[int]model.Item, error) {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	resolved, err := s.resolveAll(ctx, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.Item, len(unique))
	for i, it := range resolved {
		if it != nil {
			byID[unique[i]] = *it
		}
	}
	return byID, nil
}
