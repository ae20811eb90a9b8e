package httpapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/hnbot/internal/client"
	"github.com/alphabot-ai/hnbot/internal/config"
	"github.com/alphabot-ai/hnbot/internal/extract"
	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/hn/hntest"
	"github.com/alphabot-ai/hnbot/internal/model"
	"github.com/alphabot-ai/hnbot/internal/news"
	"github.com/alphabot-ai/hnbot/internal/tools"
)

// startStack wires the real HTTP upstream client against a fixture
// upstream server, serves the full API over httptest, and returns the
// Go client pointed at it.
func startStack(t *testing.T, fake *hntest.Fake) *client.Client {
	t.Helper()
	upstream := hntest.Server(fake)
	t.Cleanup(upstream.Close)

	hc := hn.New(upstream.URL, 5*time.Second)
	svc := news.NewService(hc, news.Options{})
	ex := extract.New(2 * time.Second)
	reg := tools.New(svc, ex)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Version = "e2e"

	api := httptest.NewServer(NewServer(svc, reg, ex, cfg))
	t.Cleanup(api.Close)
	return client.New(api.URL)
}

func seedFrontPage(fake *hntest.Fake) {
	fake.Lists[hn.ListTop] = []int{101, 102, 103}
	fake.Lists[hn.ListNew] = []int{103, 102, 101}
	fake.AddStory(model.Item{ID: 101, Title: "Show HN: a tiny build system", By: "alice", Score: 120, Kids: []int{201, 202}})
	fake.AddStory(model.Item{ID: 102, Title: "Quantum computing reaches a milestone", By: "bob", Score: 300})
	fake.AddStory(model.Item{ID: 103, Title: "Why databases love B-trees", By: "carol", Score: 80})
	fake.Items[201] = model.Item{ID: 201, Type: "comment", By: "dan", Text: "neat", Parent: 101, Kids: []int{301}}
	fake.Items[202] = model.Item{ID: 202, Type: "comment", By: "erin", Text: "how fast?", Parent: 101}
	fake.Items[301] = model.Item{ID: 301, Type: "comment", By: "alice", Text: "very", Parent: 201}
	fake.Users["alice"] = model.User{ID: "alice", Karma: 1000, Submitted: []int{101}}
	fake.MaxID = 301
}

func TestE2EReadFlow(t *testing.T) {
	fake := hntest.NewFake()
	seedFrontPage(fake)
	c := startStack(t, fake)

	if err := c.Health(); err != nil {
		t.Fatalf("health: %v", err)
	}

	stories, err := c.GetStories("top", 2)
	if err != nil {
		t.Fatalf("stories: %v", err)
	}
	if len(stories) != 2 || stories[0].ID != 101 {
		t.Fatalf("stories = %+v", stories)
	}

	item, err := c.GetItem(102)
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.By != "bob" {
		t.Errorf("item = %+v", item)
	}

	user, err := c.GetUser("alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.Karma != 1000 {
		t.Errorf("user = %+v", user)
	}

	maxID, err := c.GetMaxItemID()
	if err != nil {
		t.Fatalf("maxitem: %v", err)
	}
	if maxID != 301 {
		t.Errorf("max id = %d", maxID)
	}
}

func TestE2ESearchAndThread(t *testing.T) {
	fake := hntest.NewFake()
	seedFrontPage(fake)
	c := startStack(t, fake)

	matches, err := c.SearchStories("quantum computing", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Item.ID != 102 {
		t.Fatalf("matches = %+v", matches)
	}
	if matches[0].Score < 2 {
		t.Errorf("score = %d", matches[0].Score)
	}

	thread, err := c.GetStoryThread(101, 10, 2)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(thread.Comments) != 2 {
		t.Fatalf("thread = %+v", thread)
	}
	if len(thread.Comments[0].Replies) != 1 || thread.Comments[0].Replies[0].Comment.ID != 301 {
		t.Errorf("nested reply missing: %+v", thread.Comments[0])
	}

	byTitle, err := c.GetStoryByTitle("tiny build system")
	if err != nil {
		t.Fatalf("by title: %v", err)
	}
	if byTitle.Story.ID != 101 {
		t.Errorf("by title = %+v", byTitle.Story)
	}

	if _, err := c.GetStoryByTitle("xylophone zeppelin"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestE2EContent(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>B-trees</title></head><body><h1>B-trees</h1><p>Balanced and wide.</p></body></html>"))
	}))
	defer page.Close()

	fake := hntest.NewFake()
	seedFrontPage(fake)
	story := fake.Items[103]
	story.URL = page.URL
	fake.Items[103] = story
	c := startStack(t, fake)

	result, err := c.GetStoryContent(103, "markdown")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if !result.OK {
		t.Fatalf("extraction failed: %s", result.Reason)
	}
	if !strings.Contains(result.Content, "# B-trees") || !strings.Contains(result.Content, "Balanced and wide.") {
		t.Errorf("content = %q", result.Content)
	}
}

func TestE2EToolsAndResources(t *testing.T) {
	fake := hntest.NewFake()
	seedFrontPage(fake)
	c := startStack(t, fake)

	infos, err := c.ListTools()
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(infos) != 16 {
		t.Errorf("tool count = %d", len(infos))
	}

	raw, err := c.InvokeTool("get_top_stories", map[string]any{"limit": 1})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !strings.Contains(string(raw), `"id":101`) {
		t.Errorf("invoke result = %s", raw)
	}

	if _, err := c.InvokeTool("get_item", map[string]any{}); err == nil {
		t.Error("expected argument error")
	}

	res, err := c.ListResources()
	if err != nil {
		t.Fatalf("list resources: %v", err)
	}
	if len(res) != 10 {
		t.Errorf("resource count = %d", len(res))
	}

	rawItem, err := c.ReadResource("hn://item/102")
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if !strings.Contains(string(rawItem), "Quantum computing") {
		t.Errorf("resource = %s", rawItem)
	}
}

func TestE2EPrompts(t *testing.T) {
	fake := hntest.NewFake()
	c := startStack(t, fake)

	infos, err := c.ListPrompts()
	if err != nil {
		t.Fatalf("list prompts: %v", err)
	}
	if len(infos) != 6 {
		t.Errorf("prompt count = %d", len(infos))
	}

	text, err := c.RenderPrompt("trending_topics", map[string]any{"kind": "ask", "limit": 5})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "5 Ask HN") {
		t.Errorf("rendered prompt = %q", text)
	}

	if _, err := c.RenderPrompt("story_summary_by_title", nil); err == nil {
		t.Error("expected argument error")
	}
}

func TestE2EVersion(t *testing.T) {
	fake := hntest.NewFake()
	c := startStack(t, fake)

	ver, err := c.Version()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if ver["version"] != "e2e" {
		t.Errorf("version = %v", ver)
	}
}
