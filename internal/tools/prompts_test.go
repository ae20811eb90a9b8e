package tools

import (
	"errors"
	"strings"
	"testing"

	"github.com/alphabot-ai/hnbot/internal/news"
)

func TestPromptsCoverEveryTemplate(t *testing.T) {
	want := []string{
		"story_summary_by_id", "story_summary_by_title",
		"story_summary_detailed_by_id", "story_summary_detailed_by_title",
		"trending_topics", "user_profile_analysis",
	}
	have := make(map[string]PromptInfo)
	for _, info := range Prompts() {
		have[info.Name] = info
	}
	for _, name := range want {
		info, ok := have[name]
		if !ok {
			t.Errorf("missing prompt %s", name)
			continue
		}
		if info.Description == "" {
			t.Errorf("prompt %s has no description", name)
		}
	}
	if len(have) != len(want) {
		t.Errorf("expected %d prompts, got %d", len(want), len(have))
	}
}

func TestPromptsAreSorted(t *testing.T) {
	infos := Prompts()
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name > infos[i].Name {
			t.Fatalf("list not sorted: %s before %s", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestRenderStorySummaryByID(t *testing.T) {
	text, err := RenderPrompt("story_summary_by_id", Args{"story_id": float64(8863)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "story 8863") {
		t.Errorf("prompt does not name the story: %q", text)
	}
	if !strings.Contains(text, "concise summary") {
		t.Errorf("prompt lost its instruction: %q", text)
	}
}

func TestRenderDetailedByTitle(t *testing.T) {
	text, err := RenderPrompt("story_summary_detailed_by_title", Args{"title": "postgres internals"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "'postgres internals'") {
		t.Errorf("prompt does not carry the title: %q", text)
	}
	if !strings.Contains(text, "comprehensive analysis") {
		t.Errorf("prompt lost its instruction: %q", text)
	}
}

func TestRenderTrendingTopics(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
	}{
		{"defaults", Args{}, "30 top"},
		{"show hn", Args{"kind": "show", "limit": float64(10)}, "10 Show HN"},
		{"newest", Args{"kind": "new"}, "30 newest"},
		{"zero limit falls back", Args{"limit": float64(0)}, "30 top"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := RenderPrompt("trending_topics", tt.args)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("prompt = %q, want substring %q", text, tt.want)
			}
		})
	}
}

func TestRenderPromptArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		args   Args
	}{
		{"missing story id", "story_summary_by_id", Args{}},
		{"non-positive story id", "story_summary_detailed_by_id", Args{"story_id": float64(0)}},
		{"fractional story id", "story_summary_by_id", Args{"story_id": 1.5}},
		{"missing title", "story_summary_by_title", Args{}},
		{"missing username", "user_profile_analysis", Args{}},
		{"unknown kind", "trending_topics", Args{"kind": "frontpage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderPrompt(tt.prompt, tt.args)
			if !errors.Is(err, news.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestRenderUnknownPrompt(t *testing.T) {
	_, err := RenderPrompt("write_my_standup", Args{})
	if !errors.Is(err, ErrUnknownPrompt) {
		t.Fatalf("expected ErrUnknownPrompt, got %v", err)
	}
}

func TestRenderUserProfileAnalysis(t *testing.T) {
	text, err := RenderPrompt("user_profile_analysis", Args{"username": "dang"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "'dang'") {
		t.Errorf("prompt does not name the user: %q", text)
	}
}
