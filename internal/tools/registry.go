// Package tools exposes the read operations as named, schema-described
// tools callable over HTTP and NATS, plus hn:// resource URIs.
package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/alphabot-ai/hnbot/internal/extract"
	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/news"
)

// ErrUnknownTool marks invocations of names the registry does not have.
var ErrUnknownTool = errors.New("unknown tool")

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Info is the callable surface of one tool, as listed to clients.
type Info struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// Args carries decoded JSON arguments for one invocation.
type Args map[string]any

type tool struct {
	info Info
	run  func(ctx context.Context, args Args) (any, error)
}

// Registry maps tool names to implementations. Build one with New and
// share it; it is immutable after construction.
type Registry struct {
	svc   *news.Service
	ex    *extract.Extractor
	tools map[string]tool
}

// New builds the full tool set over a news service and an extractor.
func New(svc *news.Service, ex *extract.Extractor) *Registry {
	r := &Registry{svc: svc, ex: ex, tools: make(map[string]tool)}
	r.registerAll()
	return r
}

// List returns tool descriptions sorted by name.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs a tool by name. Argument errors wrap
// news.ErrInvalidArgument; unknown names wrap ErrUnknownTool.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t.run(ctx, args)
}

func (r *Registry) add(info Info, run func(ctx context.Context, args Args) (any, error)) {
	r.tools[info.Name] = tool{info: info, run: run}
}

var limitParam = Param{Name: "limit", Type: "integer", Description: "max results, 0 for the default"}

func (r *Registry) registerAll() {
	r.add(Info{
		Name:        "get_item",
		Description: "Fetch one item (story, comment, job, poll) by id.",
		Params: []Param{
			{Name: "item_id", Type: "integer", Required: true, Description: "item id"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		id, err := args.requireInt("item_id")
		if err != nil {
			return nil, err
		}
		return r.svc.Item(ctx, id)
	})

	r.add(Info{
		Name:        "get_user",
		Description: "Fetch a user profile by username.",
		Params: []Param{
			{Name: "username", Type: "string", Required: true, Description: "case-sensitive username"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		username, err := args.requireString("username")
		if err != nil {
			return nil, err
		}
		return r.svc.User(ctx, username)
	})

	r.add(Info{
		Name:        "get_max_item_id",
		Description: "Return the current largest item id.",
	}, func(ctx context.Context, args Args) (any, error) {
		id, err := r.svc.MaxItem(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int{"max_item_id": id}, nil
	})

	r.add(Info{
		Name:        "get_updates",
		Description: "Return recently changed items and profiles.",
	}, func(ctx context.Context, args Args) (any, error) {
		return r.svc.Updates(ctx)
	})

	for _, kind := range hn.ListKinds() {
		kind := kind
		r.add(Info{
			Name:        fmt.Sprintf("get_%s_stories", kind),
			Description: fmt.Sprintf("Fetch the current %s list, resolved to items.", kind),
			Params:      []Param{limitParam},
		}, func(ctx context.Context, args Args) (any, error) {
			limit, err := args.optionalInt("limit", 0)
			if err != nil {
				return nil, err
			}
			return r.svc.Stories(ctx, kind, limit)
		})
	}

	r.add(Info{
		Name:        "find_stories_by_title",
		Description: "Score recent stories against a query and return the best matches.",
		Params: []Param{
			{Name: "query", Type: "string", Required: true, Description: "free-text title query"},
			{Name: "pool", Type: "string", Description: "candidate list kind, default new"},
			{Name: "pool_size", Type: "integer", Description: "candidate pool size, 0 for the default"},
			limitParam,
		},
	}, func(ctx context.Context, args Args) (any, error) {
		query, err := args.requireString("query")
		if err != nil {
			return nil, err
		}
		pool, err := args.optionalString("pool", "")
		if err != nil {
			return nil, err
		}
		poolSize, err := args.optionalInt("pool_size", 0)
		if err != nil {
			return nil, err
		}
		limit, err := args.optionalInt("limit", 0)
		if err != nil {
			return nil, err
		}
		return r.svc.FindByTitle(ctx, query, hn.ListKind(pool), poolSize, limit)
	})

	r.add(Info{
		Name:        "get_story_by_title",
		Description: "Return the best-matching story with its comment tree.",
		Params: []Param{
			{Name: "query", Type: "string", Required: true, Description: "free-text title query"},
			{Name: "comment_limit", Type: "integer", Description: "comments per level, 0 for the default"},
			{Name: "max_depth", Type: "integer", Description: "reply depth, 0 for the default"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		query, err := args.requireString("query")
		if err != nil {
			return nil, err
		}
		commentLimit, err := args.optionalInt("comment_limit", 0)
		if err != nil {
			return nil, err
		}
		maxDepth, err := args.optionalInt("max_depth", 0)
		if err != nil {
			return nil, err
		}
		return r.svc.StoryByTitle(ctx, query, commentLimit, maxDepth)
	})

	r.add(Info{
		Name:        "get_story_with_comments",
		Description: "Fetch a story and its comment tree by id.",
		Params: []Param{
			{Name: "story_id", Type: "integer", Required: true, Description: "story id"},
			{Name: "comment_limit", Type: "integer", Description: "comments per level, 0 for the default"},
			{Name: "max_depth", Type: "integer", Description: "reply depth, 0 for the default"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		id, err := args.requireInt("story_id")
		if err != nil {
			return nil, err
		}
		commentLimit, err := args.optionalInt("comment_limit", 0)
		if err != nil {
			return nil, err
		}
		maxDepth, err := args.optionalInt("max_depth", 0)
		if err != nil {
			return nil, err
		}
		return r.svc.StoryThread(ctx, id, commentLimit, maxDepth)
	})

	r.add(Info{
		Name:        "get_story_content",
		Description: "Fetch a story's linked page as readable markdown or text.",
		Params: []Param{
			{Name: "story_id", Type: "integer", Required: true, Description: "story id"},
			{Name: "format", Type: "string", Description: "markdown, text, or json; default markdown"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		id, err := args.requireInt("story_id")
		if err != nil {
			return nil, err
		}
		format, err := args.contentFormat()
		if err != nil {
			return nil, err
		}
		story, err := r.svc.Item(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.ex.Extract(ctx, story, format), nil
	})

	r.add(Info{
		Name:        "get_story_content_by_title",
		Description: "Find the best-matching story and fetch its linked page.",
		Params: []Param{
			{Name: "query", Type: "string", Required: true, Description: "free-text title query"},
			{Name: "format", Type: "string", Description: "markdown, text, or json; default markdown"},
		},
	}, func(ctx context.Context, args Args) (any, error) {
		query, err := args.requireString("query")
		if err != nil {
			return nil, err
		}
		format, err := args.contentFormat()
		if err != nil {
			return nil, err
		}
		matches, err := r.svc.FindByTitle(ctx, query, "", 0, 1)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, hn.ErrNotFound
		}
		return r.ex.Extract(ctx, matches[0].Item, format), nil
	})

	r.add(Info{
		Name:        "search_by_date",
		Description: "Return recent stories posted within a UTC day bucket.",
		Params: []Param{
			{Name: "days_ago", Type: "integer", Description: "0 for today, 1 for yesterday"},
			limitParam,
		},
	}, func(ctx context.Context, args Args) (any, error) {
		daysAgo, err := args.optionalInt("days_ago", 0)
		if err != nil {
			return nil, err
		}
		limit, err := args.optionalInt("limit", 0)
		if err != nil {
			return nil, err
		}
		return r.svc.ByDate(ctx, daysAgo, limit)
	})
}

func (a Args) requireInt(name string) (int, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing argument %q", news.ErrInvalidArgument, name)
	}
	return toInt(name, v)
}

func (a Args) optionalInt(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}
	return toInt(name, v)
}

func (a Args) requireString(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: missing argument %q", news.ErrInvalidArgument, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string", news.ErrInvalidArgument, name)
	}
	return s, nil
}

func (a Args) optionalString(name, def string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string", news.ErrInvalidArgument, name)
	}
	return s, nil
}

func (a Args) contentFormat() (string, error) {
	raw, err := a.optionalString("format", "")
	if err != nil {
		return "", err
	}
	format, err := extract.ParseFormat(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", news.ErrInvalidArgument, err)
	}
	return format, nil
}

// toInt accepts the numeric shapes JSON decoding produces.
func toInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: argument %q must be an integer", news.ErrInvalidArgument, name)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: argument %q must be an integer", news.ErrInvalidArgument, name)
}
