package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/news"
)

// ResourceScheme prefixes every addressable resource URI.
const ResourceScheme = "hn://"

// ResourceInfo describes one URI template.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// Resources lists the URI templates the resolver understands.
func Resources() []ResourceInfo {
	out := []ResourceInfo{
		{URI: "hn://item/{id}", Description: "one item by id"},
		{URI: "hn://user/{username}", Description: "one user profile"},
		{URI: "hn://maxitem", Description: "the current largest item id"},
		{URI: "hn://updates", Description: "recently changed items and profiles"},
	}
	for _, kind := range hn.ListKinds() {
		out = append(out, ResourceInfo{
			URI:         fmt.Sprintf("hn://%s/{limit}", kind),
			Description: fmt.Sprintf("the %s list resolved to items", kind),
		})
	}
	return out
}

// Resolve reads the resource a URI addresses. Malformed URIs wrap
// news.ErrInvalidArgument.
func (r *Registry) Resolve(ctx context.Context, uri string) (any, error) {
	rest, ok := strings.CutPrefix(uri, ResourceScheme)
	if !ok {
		return nil, fmt.Errorf("%w: resource uri must start with %s", news.ErrInvalidArgument, ResourceScheme)
	}
	head, tail, _ := strings.Cut(strings.Trim(rest, "/"), "/")
	switch head {
	case "item":
		id, err := uriInt(tail, "item id")
		if err != nil {
			return nil, err
		}
		return r.svc.Item(ctx, id)
	case "user":
		if tail == "" {
			return nil, fmt.Errorf("%w: username required", news.ErrInvalidArgument)
		}
		return r.svc.User(ctx, tail)
	case "maxitem":
		id, err := r.svc.MaxItem(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int{"max_item_id": id}, nil
	case "updates":
		return r.svc.Updates(ctx)
	}
	if kind, ok := hn.ParseListKind(head); ok {
		limit := 0
		if tail != "" {
			var err error
			limit, err = uriInt(tail, "limit")
			if err != nil {
				return nil, err
			}
		}
		return r.svc.Stories(ctx, kind, limit)
	}
	return nil, fmt.Errorf("%w: unknown resource %q", news.ErrInvalidArgument, uri)
}

func uriInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", news.ErrInvalidArgument, what)
	}
	return n, nil
}
