package updater

import (
	"strings"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

// DefaultMaxPerCategory limits the number of entries kept in each category
const DefaultMaxPerCategory = 2000

// Merge appends new entries to existing ones for every category, removes duplicates
// and keeps only the last maxPerCategory entries. Entries are compared and stored trimmed,
// the first occurrence wins and empty entries are dropped. Returns the number of entries
// from the batch that made it into each category.
func Merge(c *domain.Collection, batch domain.Batch, maxPerCategory int) map[domain.Category]int {
	if maxPerCategory <= 0 {
		maxPerCategory = DefaultMaxPerCategory
	}
	if c.Entries == nil {
		c.Entries = make(map[domain.Category][]string, len(domain.Categories()))
	}

	added := make(map[domain.Category]int, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		existing := c.Entries[cat]
		merged := make([]string, 0, len(existing)+len(batch[cat]))
		merged = append(merged, existing...)
		merged = append(merged, batch[cat]...)

		deduped, fromBatch := dedupKeepRecent(merged, len(existing), maxPerCategory)
		c.Entries[cat] = deduped
		added[cat] = fromBatch
	}
	return added
}

// dedupKeepRecent keeps the first occurrence of each trimmed entry and returns the trailing
// limit entries. newFrom is the index where new entries start, used to count survivors among them.
func dedupKeepRecent(entries []string, newFrom, limit int) (res []string, fromNew int) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	isNew := make([]bool, 0, len(entries))
	for i, s := range entries {
		key := strings.TrimSpace(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
		isNew = append(isNew, i >= newFrom)
	}

	if len(out) > limit {
		out = out[len(out)-limit:]
		isNew = isNew[len(isNew)-limit:]
	}
	for _, n := range isNew {
		if n {
			fromNew++
		}
	}
	return out, fromNew
}
