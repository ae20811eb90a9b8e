package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

func TestDayWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		daysAgo int
		start   time.Time
	}{
		{"today", 0, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", 1, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"last week", 7, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := dayWindow(now, tt.daysAgo)
			if !w.Start.Equal(tt.start) {
				t.Errorf("start = %v, want %v", w.Start, tt.start)
			}
			if !w.End.Equal(tt.start.AddDate(0, 0, 1)) {
				t.Errorf("end = %v, want one day after start", w.End)
			}
		})
	}
}

func TestDayWindowContains(t *testing.T) {
	w := dayWindow(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), 1)
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start inclusive", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"midday", time.Date(2026, 3, 14, 13, 45, 0, 0, time.UTC), true},
		{"end exclusive", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"day before", time.Date(2026, 3, 13, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at.Unix()); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestByDateFiltersToWindow(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	yesterday := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC).Unix()
	today := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC).Unix()
	older := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC).Unix()

	fake.Lists[hn.ListNew] = []int{1, 2, 3, 4, 5}
	fake.AddStory(model.Item{ID: 1, Title: "fresh", Time: today})
	fake.AddStory(model.Item{ID: 2, Title: "yesterday a", Time: yesterday})
	fake.AddStory(model.Item{ID: 3, Title: "too old", Time: older})
	fake.AddStory(model.Item{ID: 4, Title: "yesterday b", Time: yesterday})
	fake.Items[5] = model.Item{ID: 5, Type: "comment", Time: yesterday}

	items, err := svc.ByDate(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected the two yesterday stories, got %d", len(items))
	}
	if items[0].ID != 2 || items[1].ID != 4 {
		t.Errorf("expected upstream order [2 4], got [%d %d]", items[0].ID, items[1].ID)
	}
}

func TestByDateRespectsLimit(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	ts := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC).Unix()
	fake.Lists[hn.ListNew] = []int{1, 2, 3}
	for _, id := range fake.Lists[hn.ListNew] {
		fake.AddStory(model.Item{ID: id, Title: "t", Time: ts})
	}

	items, err := svc.ByDate(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestByDatePoolBound(t *testing.T) {
	svc, fake := newFixtureService(Options{DatePool: 2})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	ts := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC).Unix()
	fake.Lists[hn.ListNew] = []int{1, 2, 3}
	for _, id := range fake.Lists[hn.ListNew] {
		fake.AddStory(model.Item{ID: id, Title: "t", Time: ts})
	}

	items, err := svc.ByDate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	// Pool of 2 means id 3 is never considered, even though it matches.
	if len(items) != 2 {
		t.Errorf("expected pool-bounded 2 items, got %d", len(items))
	}
}

func TestByDateArguments(t *testing.T) {
	svc, fake := newFixtureService(Options{})
	if _, err := svc.ByDate(context.Background(), -1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative days_ago: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.ByDate(context.Background(), 0, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative limit: expected ErrInvalidArgument, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Errorf("invalid arguments must not reach upstream, saw %d calls", fake.Calls())
	}
}
