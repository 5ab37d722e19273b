package sources

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/balrog57/chireaders/pkg/data"
)

const userAgent = "Mozilla/5.0 (Linux; Android 10; Mobile)"

var chapterNumberRe = regexp.MustCompile(`(?:chapitre|chapter)-(\d+)`)

// ChiReads scrapes chapter lists from chireads.com series pages. Chapter
// links are anchors whose href contains "chapitre-" or "chapter-"; the site
// lists them oldest first, so the last link is the latest chapter.
type ChiReads struct {
	client *http.Client
}

func NewChiReads() *ChiReads {
	return &ChiReads{client: http.DefaultClient}
}

func (c *ChiReads) GetChapterList(ctx context.Context, seriesURL string) ([]data.Chapter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, seriesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse series page: %w", err)
	}
	return collectChapters(doc), nil
}

func collectChapters(doc *html.Node) []data.Chapter {
	var chapters []data.Chapter
	seen := map[string]struct{}{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if isChapterLink(href) {
				if _, dup := seen[href]; !dup {
					seen[href] = struct{}{}
					chapters = append(chapters, data.Chapter{
						URL:    href,
						Title:  strings.TrimSpace(nodeText(n)),
						Number: chapterNumber(href),
					})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return chapters
}

func isChapterLink(href string) bool {
	return href != "" && (strings.Contains(href, "chapitre-") || strings.Contains(href, "chapter-"))
}

// chapterNumber pulls the trailing chapter number out of the URL, or -1 for
// unnumbered/bonus content.
func chapterNumber(href string) int {
	m := chapterNumberRe.FindStringSubmatch(href)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}
