// Package extract fetches a story's linked page and reduces it to
// readable markdown or plain text. Extraction is best-effort: fetch or
// parse failures are reported inside the result, never as an error, so
// one unreachable page cannot fail a batch.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yhat/scrape"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alphabot-ai/hnbot/internal/model"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// ParseFormat normalizes a requested format. Empty means markdown.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown content format %q", s)
}

// skipTags are subtrees that carry chrome, not article content.
var skipTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Form:     true,
	atom.Svg:      true,
}

// Extractor fetches and converts story pages.
type Extractor struct {
	// HTTPClient is the outbound client. Its timeout bounds each fetch.
	HTTPClient *http.Client
	// MaxBytes caps how much of a page body is read.
	MaxBytes int64
	// UserAgent is sent on every fetch.
	UserAgent string
}

// New returns an extractor with the given fetch timeout. A zero timeout
// defaults to 20 seconds.
func New(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Extractor{
		HTTPClient: &http.Client{Timeout: timeout},
		MaxBytes:   2 << 20,
		UserAgent:  "hnbot/1.0",
	}
}

// Extract produces a ContentResult for a story. Text posts (Ask HN and
// the like) render their own text; link posts fetch the URL. The
// requested format must already be normalized via ParseFormat.
func (e *Extractor) Extract(ctx context.Context, story model.Item, format string) model.ContentResult {
	res := model.ContentResult{
		StoryID: story.ID,
		Title:   story.Title,
		URL:     story.URL,
		Format:  format,
	}
	if story.URL == "" {
		if story.Text == "" {
			res.Reason = "story has neither url nor text"
			return res
		}
		return e.fromHTML(res, strings.NewReader(story.Text), format)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, story.URL, nil)
	if err != nil {
		res.Reason = fmt.Sprintf("bad story url: %v", err)
		return res
	}
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "text/html")
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		res.Reason = fmt.Sprintf("fetch failed: %v", err)
		return res
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		res.Reason = fmt.Sprintf("fetch returned status %d", resp.StatusCode)
		return res
	}
	ctype := resp.Header.Get("Content-Type")
	if !strings.Contains(ctype, "text/html") && !strings.Contains(ctype, "application/xhtml") {
		res.Reason = fmt.Sprintf("unsupported content type %q", ctype)
		return res
	}
	return e.fromHTML(res, io.LimitReader(resp.Body, e.MaxBytes), format)
}

func (e *Extractor) fromHTML(res model.ContentResult, r io.Reader, format string) model.ContentResult {
	root, err := html.Parse(r)
	if err != nil {
		res.Reason = fmt.Sprintf("parse failed: %v", err)
		return res
	}
	if res.Title == "" {
		if t, ok := scrape.Find(root, scrape.ByTag(atom.Title)); ok {
			res.Title = strings.TrimSpace(scrape.Text(t))
		}
	}
	content := root
	if body, ok := scrape.Find(root, scrape.ByTag(atom.Body)); ok {
		content = body
	}

	var out string
	switch format {
	case FormatText, FormatJSON:
		out = renderText(content)
	default:
		out = renderMarkdown(content)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		res.Reason = "no readable content found"
		return res
	}
	res.Content = out
	res.OK = true
	return res
}

// renderText flattens the tree into whitespace-normalized paragraphs.
func renderText(n *html.Node) string {
	var blocks []string
	walkBlocks(n, func(node *html.Node) {
		text := collapse(scrape.Text(node))
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		// No block structure at all; fall back to raw text.
		return collapse(textWithoutChrome(n))
	}
	return strings.Join(blocks, "\n\n")
}

// renderMarkdown keeps headings, lists, and preformatted blocks.
func renderMarkdown(n *html.Node) string {
	var blocks []string
	walkBlocks(n, func(node *html.Node) {
		switch node.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(node.Data[1] - '0')
			text := collapse(scrape.Text(node))
			if text != "" {
				blocks = append(blocks, strings.Repeat("#", level)+" "+text)
			}
		case atom.Pre:
			code := strings.Trim(scrape.TextJoin(node, func(ss []string) string {
				return strings.Join(ss, "\n")
			}), "\n")
			if code != "" {
				blocks = append(blocks, "```\n"+code+"\n```")
			}
		case atom.Ul, atom.Ol:
			var items []string
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.DataAtom != atom.Li {
					continue
				}
				if text := collapse(scrape.Text(c)); text != "" {
					items = append(items, "- "+text)
				}
			}
			if len(items) > 0 {
				blocks = append(blocks, strings.Join(items, "\n"))
			}
		case atom.Blockquote:
			if text := collapse(scrape.Text(node)); text != "" {
				blocks = append(blocks, "> "+text)
			}
		default:
			if text := collapse(scrape.Text(node)); text != "" {
				blocks = append(blocks, text)
			}
		}
	})
	if len(blocks) == 0 {
		return collapse(textWithoutChrome(n))
	}
	return strings.Join(blocks, "\n\n")
}

// blockTags are the nodes treated as standalone content blocks.
var blockTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Pre: true, atom.Ul: true,
	atom.Ol: true, atom.Blockquote: true,
}

// walkBlocks visits block-level content nodes in document order,
// skipping chrome subtrees and not descending into visited blocks.
func walkBlocks(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		if skipTags[n.DataAtom] {
			return
		}
		if blockTags[n.DataAtom] {
			visit(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkBlocks(c, visit)
	}
}

func textWithoutChrome(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skipTags[node.DataAtom] {
			return
		}
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
