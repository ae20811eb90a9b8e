// Package hntest provides fixture-backed fakes for the upstream API,
// usable both as an in-process hn.Fetcher and as an httptest server
// speaking the firebase wire shape.
package hntest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// Fake is an in-memory hn.Fetcher. Zero value is usable; populate the
// maps before handing it to code under test.
type Fake struct {
	mu       sync.Mutex
	Items    map[int]model.Item
	Users    map[string]model.User
	Lists    map[hn.ListKind][]int
	MaxID    int
	Upd      model.Updates
	ItemErrs map[int]error
	calls    int
}

// NewFake returns an empty fake with initialized maps.
func NewFake() *Fake {
	return &Fake{
		Items:    make(map[int]model.Item),
		Users:    make(map[string]model.User),
		Lists:    make(map[hn.ListKind][]int),
		ItemErrs: make(map[int]error),
	}
}

// AddStory registers a story item and returns its id.
func (f *Fake) AddStory(item model.Item) int {
	if item.Type == "" {
		item.Type = "story"
	}
	f.Items[item.ID] = item
	return item.ID
}

// Calls reports how many fetches have been made, for assertions on
// fan-out behavior.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *Fake) Item(ctx context.Context, id int) (model.Item, error) {
	f.count()
	if err := ctx.Err(); err != nil {
		return model.Item{}, &hn.UpstreamError{Op: "item", Err: err}
	}
	if err, ok := f.ItemErrs[id]; ok {
		return model.Item{}, err
	}
	item, ok := f.Items[id]
	if !ok {
		return model.Item{}, hn.ErrNotFound
	}
	return item, nil
}

func (f *Fake) User(ctx context.Context, username string) (model.User, error) {
	f.count()
	user, ok := f.Users[username]
	if !ok {
		return model.User{}, hn.ErrNotFound
	}
	return user, nil
}

func (f *Fake) List(ctx context.Context, kind hn.ListKind) ([]int, error) {
	f.count()
	ids, ok := f.Lists[kind]
	if !ok {
		return nil, hn.ErrNotFound
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, nil
}

func (f *Fake) MaxItem(ctx context.Context) (int, error) {
	f.count()
	return f.MaxID, nil
}

func (f *Fake) Updates(ctx context.Context) (model.Updates, error) {
	f.count()
	return f.Upd, nil
}

// Server starts an httptest server that mimics the firebase API shape
// from the fake's fixtures. Point an hn.Client at its URL to exercise
// real HTTP paths.
func Server(f *Fake) *httptest.Server {
	endpointKinds := map[string]hn.ListKind{
		"topstories":  hn.ListTop,
		"newstories":  hn.ListNew,
		"beststories": hn.ListBest,
		"askstories":  hn.ListAsk,
		"showstories": hn.ListShow,
		"jobstories":  hn.ListJob,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")
		switch {
		case strings.HasPrefix(path, "item/"):
			id, err := strconv.Atoi(strings.TrimPrefix(path, "item/"))
			if err != nil {
				http.Error(w, "bad id", http.StatusBadRequest)
				return
			}
			item, ok := f.Items[id]
			if !ok {
				writeNull(w)
				return
			}
			writeJSON(w, item)
		case strings.HasPrefix(path, "user/"):
			user, ok := f.Users[strings.TrimPrefix(path, "user/")]
			if !ok {
				writeNull(w)
				return
			}
			writeJSON(w, user)
		case path == "maxitem":
			writeJSON(w, f.MaxID)
		case path == "updates":
			writeJSON(w, f.Upd)
		default:
			if kind, ok := endpointKinds[path]; ok {
				ids := f.Lists[kind]
				if ids == nil {
					ids = []int{}
				}
				writeJSON(w, ids)
				return
			}
			http.NotFound(w, r)
		}
	}))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeNull(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("null"))
}
