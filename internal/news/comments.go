package news

import (
	"context"
	"fmt"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/model"
)

// commentBearing reports whether an item type can root a comment tree.
func commentBearing(typ string) bool {
	switch typ {
	case "story", "poll", "job":
		return true
	}
	return false
}

// levelTask attaches one parent's pending kid ids to the slice its
// accepted replies will land in.
type levelTask struct {
	attach *[]model.CommentNode
	ids    []int
}

// StoryThread fetches a story and assembles its comment tree.
// commentLimit is a per-level budget of emitted comments: deleted and
// dead comments are skipped without consuming it. maxDepth counts reply
// levels below the top level. Zero values take the configured defaults.
//
// The walk is an explicit per-level work queue, so sibling fetches
// batch into one bounded fan-out per depth level and stack depth stays
// constant. A visit cap bounds total ids inspected against upstream
// anomalies.
func (s *Service) StoryThread(ctx context.Context, storyID, commentLimit, maxDepth int) (model.StoryThread, error) {
	if storyID <= 0 {
		return model.StoryThread{}, fmt.Errorf("%w: story id must be positive", ErrInvalidArgument)
	}
	if commentLimit < 0 || maxDepth < 0 {
		return model.StoryThread{}, fmt.Errorf("%w: comment limit and depth must not be negative", ErrInvalidArgument)
	}
	if commentLimit == 0 {
		commentLimit = s.opts.CommentLimit
	}
	if maxDepth == 0 {
		maxDepth = s.opts.MaxDepth
	}

	story, err := s.fetcher.Item(ctx, storyID)
	if err != nil {
		return model.StoryThread{}, err
	}
	if story.Deleted || story.Dead || !commentBearing(story.Type) {
		return model.StoryThread{}, hn.ErrNotFound
	}

	thread := model.StoryThread{Story: story, Comments: []model.CommentNode{}}
	visitBudget := commentLimit * (maxDepth + 1) * 4

	tasks := []levelTask{{attach: &thread.Comments, ids: story.Kids}}
	for depth := 0; depth <= maxDepth && len(tasks) > 0; depth++ {
		// Trim each task to the remaining visit budget, then resolve
		// the whole level in one fan-out.
		var levelIDs []int
		for i := range tasks {
			if visitBudget < len(tasks[i].ids) {
				tasks[i].ids = tasks[i].ids[:visitBudget]
			}
			visitBudget -= len(tasks[i].ids)
			levelIDs = append(levelIDs, tasks[i].ids...)
		}
		byID, err := s.resolveMap(ctx, levelIDs)
		if err != nil {
			return model.StoryThread{}, err
		}

		var next []levelTask
		for _, task := range tasks {
			nodes := make([]model.CommentNode, 0, commentLimit)
			for _, id := range task.ids {
				if len(nodes) == commentLimit {
					break
				}
				comment, ok := byID[id]
				if !ok || comment.Deleted || comment.Dead || comment.Type != "comment" {
					continue
				}
				nodes = append(nodes, model.CommentNode{Comment: comment})
			}
			*task.attach = nodes
			if depth == maxDepth {
				continue
			}
			for i := range nodes {
				if len(nodes[i].Comment.Kids) > 0 {
					next = append(next, levelTask{attach: &nodes[i].Replies, ids: nodes[i].Comment.Kids})
				}
			}
		}
		tasks = next
	}

	return thread, nil
}
