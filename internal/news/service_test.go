package news

import (
	"context"
	"errors"
	"testing"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/hn/hntest"
	"github.com/alphabot-ai/hnbot/internal/model"
)

func newFixtureService(opts Options) (*Service, *hntest.Fake) {
	fake := hntest.NewFake()
	return NewService(fake, opts), fake
}

func TestItemResolvesMatchingID(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	fake.AddStory(model.Item{ID: 8863, Title: "Dropbox"})

	item, err := svc.Item(context.Background(), 8863)
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.ID != 8863 {
		t.Errorf("expected id 8863, got %d", item.ID)
	}
}

func TestItemNotFound(t *testing.T) {
	svc, _ := newFixtureService(Options{})
	_, err := svc.Item(context.Background(), 999999999999)
	if !errors.Is(err, hn.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestItemInvalidID(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	_, err := svc.Item(context.Background(), 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Errorf("invalid argument must be rejected before any outbound call, saw %d", fake.Calls())
	}
}

func TestStoriesPreservesUpstreamOrder(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	fake.Lists[hn.ListTop] = []int{50, 10, 40, 20, 30, 60}
	for _, id := range fake.Lists[hn.ListTop] {
		fake.AddStory(model.Item{ID: id, Title: "story"})
	}

	items, err := svc.Stories(context.Background(), hn.ListTop, 5)
	if err != nil {
		t.Fatalf("stories: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	want := []int{50, 10, 40, 20, 30}
	for i := range want {
		if items[i].ID != want[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want[i])
		}
	}
}

func TestStoriesOmitsFailedAndDeadEntries(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	fake.Lists[hn.ListBest] = []int{1, 2, 3, 4, 5}
	fake.AddStory(model.Item{ID: 1, Title: "a"})
	// 2 missing upstream
	fake.AddStory(model.Item{ID: 3, Title: "c", Dead: true})
	fake.AddStory(model.Item{ID: 4, Title: "d", Deleted: true})
	fake.AddStory(model.Item{ID: 5, Title: "e"})
	fake.ItemErrs[2] = &hn.UpstreamError{Op: "item", Status: 500}

	items, err := svc.Stories(context.Background(), hn.ListBest, 5)
	if err != nil {
		t.Fatalf("stories: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 5 {
		t.Errorf("expected survivors [1 5], got [%d %d]", items[0].ID, items[1].ID)
	}
}

func TestListLimitDefaultsAndClamps(t *testing.T) {
	svc, fake := newFixtureService(Options{ListLimit: 3})
	fake.Lists[hn.ListNew] = []int{1, 2, 3, 4, 5}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 3},
		{"explicit", 2, 2},
		{"clamped to pool", 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := svc.ListIDs(context.Background(), hn.ListNew, tt.limit)
			if err != nil {
				t.Fatalf("list ids: %v", err)
			}
			if len(ids) != tt.want {
				t.Errorf("expected %d ids, got %d", tt.want, len(ids))
			}
		})
	}
}

func TestListIDsRejectsBadArguments(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	if _, err := svc.ListIDs(context.Background(), hn.ListTop, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative limit: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.ListIDs(context.Background(), hn.ListKind("weird"), 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown kind: expected ErrInvalidArgument, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Errorf("invalid arguments must not reach upstream, saw %d calls", fake.Calls())
	}
}

func TestListLimitClampsToUpstreamCap(t *testing.T) {
	svc, _ := newFixtureService(Options{})
	got, err := svc.listLimit(hn.ListAsk, 1000)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if got != 200 {
		t.Errorf("ask list cap is 200, got %d", got)
	}
}

func TestStoriesIdempotent(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	fake.Lists[hn.ListTop] = []int{3, 1, 2}
	for _, id := range fake.Lists[hn.ListTop] {
		fake.AddStory(model.Item{ID: id, Title: "t"})
	}

	first, err := svc.Stories(context.Background(), hn.ListTop, 3)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Stories(context.Background(), hn.ListTop, 3)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("result sets differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("ordering differs at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestResolveAllBoundsFanout(t *testing.T) {
	// A width-1 fan-out still resolves everything and keeps order.
	svc, fake := newFixtureService(Options{FanoutWidth: 1})
	ids := []int{9, 8, 7, 6}
	fake.Lists[hn.ListTop] = ids
	for _, id := range ids {
		fake.AddStory(model.Item{ID: id})
	}

	items, err := svc.Stories(context.Background(), hn.ListTop, len(ids))
	if err != nil {
		t.Fatalf("stories: %v", err)
	}
	for i := range ids {
		if items[i].ID != ids[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, ids[i])
		}
	}
}

func TestResolveAllCancelledContext(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	fake.Lists[hn.ListTop] = []int{1, 2, 3}
	for _, id := range fake.Lists[hn.ListTop] {
		fake.AddStory(model.Item{ID: id})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Stories(ctx, hn.ListTop, 3)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
