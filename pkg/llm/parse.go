package llm

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

var stripPolicy = bluemonday.StrictPolicy()

// htmlTag matches common html elements with quoted attributes only, so text like "a<b and c>d"
// or "<<love>>" is not taken for markup
var htmlTag = regexp.MustCompile(`(?i)</?(?:a|b|i|u|s|em|strong|small|big|mark|sub|sup|span|div|p|br|hr|font|code|pre|` +
	`blockquote|h[1-6]|ul|ol|li|script|style)(?:\s+[a-z-]+\s*=\s*(?:"[^"]*"|'[^']*'))*\s*/?>`)

// ParseResponse converts raw model text into a batch. It never fails: text that can't be
// decoded gives empty lists, and so does any category that is missing or not a list of strings.
func ParseResponse(text string) domain.Batch {
	batch := domain.NewBatch()

	raw, ok := decodeObject(cleanResponse(text))
	if !ok {
		// try the outermost object, models sometimes add prose around it
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end == -1 || start >= end {
			return batch
		}
		if raw, ok = decodeObject(text[start : end+1]); !ok {
			return batch
		}
	}

	for _, cat := range domain.Categories() {
		val, found := raw[string(cat)]
		if !found {
			continue
		}
		var entries []string
		if err := json.Unmarshal(val, &entries); err != nil {
			continue
		}
		for _, e := range entries {
			if e = sanitize(e); e != "" {
				batch[cat] = append(batch[cat], e)
			}
		}
	}
	return batch
}

// cleanResponse strips code fences and a leading language tag
func cleanResponse(text string) string {
	res := strings.TrimSpace(text)
	res = strings.Trim(res, "`")
	res = strings.TrimSpace(res)
	if len(res) >= 4 && strings.EqualFold(res[:4], "json") {
		res = res[4:]
	}
	return strings.TrimSpace(res)
}

func decodeObject(s string) (map[string]json.RawMessage, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil, false
	}
	return raw, true
}

// sanitize trims the entry. Entries with html tags are reduced to their text, anything else
// is kept as is, including stray brackets and entities.
func sanitize(s string) string {
	if !htmlTag.MatchString(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
