package model

// Item is a Hacker News item as returned by the firebase API: a story,
// comment, job, poll, or poll option. Every field but ID is optional
// upstream, so everything else carries omitempty.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
	By          string `json:"by,omitempty"`
	Time        int64  `json:"time,omitempty"`
	Text        string `json:"text,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
	Parent      int    `json:"parent,omitempty"`
	Poll        int    `json:"poll,omitempty"`
	Kids        []int  `json:"kids,omitempty"`
	URL         string `json:"url,omitempty"`
	Score       int    `json:"score,omitempty"`
	Title       string `json:"title,omitempty"`
	Parts       []int  `json:"parts,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
}

// User is a Hacker News user profile. ID is the case-sensitive username.
type User struct {
	ID        string `json:"id"`
	Created   int64  `json:"created,omitempty"`
	Karma     int    `json:"karma"`
	About     string `json:"about,omitempty"`
	Submitted []int  `json:"submitted,omitempty"`
}

// Updates lists the most recently changed items and profiles.
type Updates struct {
	Items    []int    `json:"items"`
	Profiles []string `json:"profiles"`
}

// CommentNode is one comment plus its replies, bounded by the limits
// the assembler was given.
type CommentNode struct {
	Comment Item          `json:"comment"`
	Replies []CommentNode `json:"replies,omitempty"`
}

// StoryThread is a story with a bounded, depth-limited comment tree.
// Built fresh per request, never cached.
type StoryThread struct {
	Story    Item          `json:"story"`
	Comments []CommentNode `json:"comments"`
}

// ScoredStory pairs a story with its title-match score.
type ScoredStory struct {
	Item  Item `json:"item"`
	Score int  `json:"score"`
}

// ContentResult carries extracted article text for a story's external
// URL. Extraction failures are reported inline via OK/Reason rather
// than as an error, so callers can still render the surrounding story.
type ContentResult struct {
	StoryID int    `json:"story_id,omitempty"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url"`
	Format  string `json:"format"`
	Content string `json:"content,omitempty"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
}
