// Package feed renders categories of the collection as RSS 2.0 feeds.
package feed

import (
	"crypto/sha1" //nolint:gosec // used for stable item ids only
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

const maxTitleLen = 80

// Generator creates RSS feeds from collection entries
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateRSS creates an RSS 2.0 feed for a category. Entries are expected newest first,
// updatedAt is used as the build and publish date; zero means now.
func (g *Generator) GenerateRSS(category domain.Category, entries []string, updatedAt time.Time) (string, error) {
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	pubDate := updatedAt.UTC().Format(time.RFC1123Z)
	link := fmt.Sprintf("%s/api/v1/shayari/%s", g.baseURL, category)

	rssItems := make([]*RSSItem, 0, len(entries))
	for _, entry := range entries {
		rssItems = append(rssItems, g.convertToRSSItem(category, entry, link, pubDate))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         "Shayari - " + string(category),
			Link:          link,
			Description:   fmt.Sprintf("Latest %s shayari", category),
			AtomLink:      &AtomLink{Href: fmt.Sprintf("%s/rss/%s", g.baseURL, category), Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: pubDate,
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(category domain.Category, entry, link, pubDate string) *RSSItem {
	guid := EntryID(entry)
	return &RSSItem{
		Title:       itemTitle(entry),
		Link:        link + "#" + guid,
		GUID:        &GUID{Value: guid, IsPermaLink: "false"},
		Description: entry,
		PubDate:     pubDate,
		Categories:  []string{string(category)},
	}
}

// EntryID returns a stable id of the entry text
func EntryID(entry string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(entry))) //nolint:gosec // not a security hash
	return hex.EncodeToString(sum[:])
}

// itemTitle is the first line of the entry, cut to maxTitleLen runes
func itemTitle(entry string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(entry), "\n")
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxTitleLen]) + "..."
}
