package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// TitleScorer ranks a candidate title against a free-text query. Higher
// is better; scores below 1 exclude the candidate. The scorer is a
// strategy so ranking can change without touching callers.
type TitleScorer interface {
	Score(query, title string) int
}

// OverlapScorer counts distinct query tokens present in the title. A
// full substring match of the query adds len(queryTokens), so it
// strictly outranks any pure token overlap.
type OverlapScorer struct{}

func (OverlapScorer) Score(query, title string) int {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	titleSet := make(map[string]struct{})
	for _, tok := range Tokenize(title) {
		titleSet[tok] = struct{}{}
	}
	score := 0
	for _, tok := range queryTokens {
		if _, ok := titleSet[tok]; ok {
			score++
		}
	}
	if strings.Contains(strings.ToLower(title), strings.ToLower(strings.TrimSpace(query))) {
		score += len(queryTokens)
	}
	return score
}

// Tokenize lowercases and splits on non-alphanumeric boundaries,
// returning distinct tokens in first-seen order.
func Tokenize(text string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// FindByTitle scores a candidate pool of stories against the query and
// returns the matches ordered by score, ties broken by pool position.
// poolKind "" means the new list; poolSize and limit 0 mean defaults.
func (s *Service) FindByTitle(ctx context.Context, query string, poolKind hn.ListKind, poolSize, limit int) ([]model.ScoredStory, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query required", ErrInvalidArgument)
	}
	if poolKind == "" {
		poolKind = hn.ListNew
	}
	if poolKind.Cap() == 0 {
		return nil, fmt.Errorf("%w: unknown pool kind %q", ErrInvalidArgument, poolKind)
	}
	if poolSize < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: pool size and limit must not be negative", ErrInvalidArgument)
	}
	if poolSize == 0 {
		poolSize = s.opts.SearchPool
	}
	if poolSize > poolKind.Cap() {
		poolSize = poolKind.Cap()
	}
	if limit == 0 {
		limit = 5
	}

	ids, err := s.fetcher.List(ctx, poolKind)
	if err != nil {
		return nil, err
	}
	if poolSize < len(ids) {
		ids = ids[:poolSize]
	}
	resolved, err := s.resolveAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	var matches []model.ScoredStory
	for _, it := range resolved {
		if it == nil || it.Deleted || it.Dead || it.Type != "story" || it.Title == "" {
			continue
		}
		score := s.scorer.Score(query, it.Title)
		if score < 1 {
			continue
		}
		matches = append(matches, model.ScoredStory{Item: *it, Score: score})
	}
	// Stable: equal scores keep pool order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// StoryByTitle is the single-result specialization of FindByTitle that
// also assembles the story's comment tree. It fails with hn.ErrNotFound
// when no candidate clears the score floor.
func (s *Service) StoryByTitle(ctx context.Context, title string, commentLimit, maxDepth int) (model.StoryThread, error) {
	matches, err := s.FindByTitle(ctx, title, "", 0, 1)
	if err != nil {
		return model.StoryThread{}, err
	}
	if len(matches) == 0 {
		return model.StoryThread{}, hn.ErrNotFound
	}
	return s.StoryThread(ctx, matches[0].Item.ID, commentLimit, maxDepth)
}
