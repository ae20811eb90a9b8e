package tools

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/news"
)

// ErrUnknownPrompt marks renders of names the prompt set does not have.
var ErrUnknownPrompt = errors.New("unknown prompt")

// PromptInfo describes one reusable prompt template. Rendering fills
// its parameters into instruction text for a language model; the
// service itself never calls one.
type PromptInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

type promptTemplate struct {
	info   PromptInfo
	render func(args Args) (string, error)
}

var promptSet = buildPrompts()

// Prompts lists the prompt template descriptions sorted by name.
func Prompts() []PromptInfo {
	out := make([]PromptInfo, 0, len(promptSet))
	for _, p := range promptSet {
		out = append(out, p.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RenderPrompt fills the named template from args. Argument errors
// wrap news.ErrInvalidArgument; unknown names wrap ErrUnknownPrompt.
func RenderPrompt(name string, args Args) (string, error) {
	p, ok := promptSet[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	return p.render(args)
}

func buildPrompts() map[string]promptTemplate {
	set := make(map[string]promptTemplate)
	add := func(info PromptInfo, render func(Args) (string, error)) {
		set[info.Name] = promptTemplate{info: info, render: render}
	}

	storyIDParam := Param{Name: "story_id", Type: "integer", Required: true, Description: "story id"}
	titleParam := Param{Name: "title", Type: "string", Required: true, Description: "keywords or title identifying the story"}

	add(PromptInfo{
		Name:        "story_summary_by_id",
		Description: "concise summary of one story and its key discussion points",
		Params:      []Param{storyIDParam},
	}, func(a Args) (string, error) {
		id, err := a.storyID()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Please provide a concise summary of Hacker News story %d and its key discussion points. Include the main topic, major perspectives from comments, any consensus or disagreements, and interesting insights.", id), nil
	})

	add(PromptInfo{
		Name:        "story_summary_by_title",
		Description: "concise summary of a story located by title keywords",
		Params:      []Param{titleParam},
	}, func(a Args) (string, error) {
		title, err := a.requireString("title")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Please provide a concise summary of the Hacker News story about '%s' and its key discussion points. Include the main topic, major perspectives from comments, any consensus or disagreements, and interesting insights.", title), nil
	})

	add(PromptInfo{
		Name:        "story_summary_detailed_by_id",
		Description: "comprehensive, sectioned analysis of one story and its discussion",
		Params:      []Param{storyIDParam},
	}, func(a Args) (string, error) {
		id, err := a.storyID()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Please provide a comprehensive analysis of Hacker News story %d and its discussion. Include a thorough summary of the content, analysis of major themes in comments, notable expert opinions, points of agreement and disagreement, technical details shared, and relevant context. Organize your response with clear sections.", id), nil
	})

	add(PromptInfo{
		Name:        "story_summary_detailed_by_title",
		Description: "comprehensive, sectioned analysis of a story located by title keywords",
		Params:      []Param{titleParam},
	}, func(a Args) (string, error) {
		title, err := a.requireString("title")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Please provide a comprehensive analysis of the Hacker News story about '%s' and its discussion. Include a thorough summary of the content, analysis of major themes in comments, notable expert opinions, points of agreement and disagreement, technical details shared, and relevant context. Organize your response with clear sections.", title), nil
	})

	add(PromptInfo{
		Name:        "trending_topics",
		Description: "identify trending topics across a story listing",
		Params: []Param{
			{Name: "limit", Type: "integer", Description: "number of stories to analyze, 0 for the default"},
			{Name: "kind", Type: "string", Description: "listing to analyze, default top"},
		},
	}, func(a Args) (string, error) {
		limit, err := a.optionalInt("limit", 30)
		if err != nil {
			return "", err
		}
		if limit <= 0 {
			limit = 30
		}
		kindStr, err := a.optionalString("kind", string(hn.ListTop))
		if err != nil {
			return "", err
		}
		kind, ok := hn.ParseListKind(kindStr)
		if !ok {
			return "", fmt.Errorf("%w: unknown list kind %q", news.ErrInvalidArgument, kindStr)
		}
		return fmt.Sprintf("Please identify 3-5 major trending topics or themes from the %d %s Hacker News stories. For each topic, list the relevant stories and explain why this is trending. Note any significant patterns in the types of stories currently popular.", limit, listDesc[kind]), nil
	})

	add(PromptInfo{
		Name:        "user_profile_analysis",
		Description: "analyze a user's activity, interests, and interaction style",
		Params: []Param{
			{Name: "username", Type: "string", Required: true, Description: "case-sensitive username"},
		},
	}, func(a Args) (string, error) {
		username, err := a.requireString("username")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Please analyze the Hacker News profile for user '%s'. Summarize their activity and interests based on submissions and comments, identify key topics they engage with, note any expertise areas they demonstrate, and analyze their interaction style and community engagement. Provide a thoughtful analysis while respecting the user's privacy.", username), nil
	})

	return set
}

// listDesc phrases each kind for prompt text.
var listDesc = map[hn.ListKind]string{
	hn.ListTop:  "top",
	hn.ListNew:  "newest",
	hn.ListBest: "best",
	hn.ListAsk:  "Ask HN",
	hn.ListShow: "Show HN",
	hn.ListJob:  "job",
}

func (a Args) storyID() (int, error) {
	id, err := a.requireInt("story_id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: story_id must be positive", news.ErrInvalidArgument)
	}
	return id, nil
}
