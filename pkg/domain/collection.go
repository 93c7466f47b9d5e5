package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category is one of the fixed content tags partitioning the collection
type Category string

// known categories, in the order they are written to the collection file
const (
	CategoryLove       Category = "love"
	CategorySad        Category = "sad"
	CategoryFriendship Category = "friendship"
	CategoryAttitude   Category = "attitude"
	CategoryFestival   Category = "festival"
)

// MetaKey is the top-level key holding collection metadata
const MetaKey = "_meta"

// TimeLayout is the format of Meta.UpdatedAt, ISO-8601 UTC with microseconds and Z suffix
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Categories returns all known categories in canonical order
func Categories() []Category {
	return []Category{CategoryLove, CategorySad, CategoryFriendship, CategoryAttitude, CategoryFestival}
}

// ParseCategory converts a string to a known category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Meta holds collection metadata
type Meta struct {
	UpdatedAt string `json:"updated_at"`
}

// UpdatedTime parses UpdatedAt, returns zero time if empty or malformed
func (m Meta) UpdatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Collection maps each category to an ordered list of unique entries, oldest first.
// Top-level keys other than categories and _meta are kept in Extra and written back untouched.
type Collection struct {
	Entries map[Category][]string
	Meta    Meta
	Extra   map[string]json.RawMessage
}

// NewCollection makes an empty collection with all categories present
func NewCollection() *Collection {
	c := &Collection{Entries: make(map[Category][]string, len(Categories()))}
	for _, cat := range Categories() {
		c.Entries[cat] = []string{}
	}
	return c
}

// Total returns the number of entries across all categories
func (c *Collection) Total() int {
	total := 0
	for _, cat := range Categories() {
		total += len(c.Entries[cat])
	}
	return total
}

// Latest returns up to n newest entries of the category, newest first. n <= 0 means all.
func (c *Collection) Latest(cat Category, n int) []string {
	entries := c.Entries[cat]
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	res := make([]string, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		res = append(res, entries[i])
	}
	return res
}

// MarshalJSON writes categories in canonical order, then extra keys sorted, then _meta
func (c Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeField := func(key string, val any) error {
		data, err := marshalNoEscape(val)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := marshalNoEscape(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	for _, cat := range Categories() {
		entries := c.Entries[cat]
		if entries == nil {
			entries = []string{}
		}
		if err := writeField(string(cat), entries); err != nil {
			return nil, err
		}
	}

	extraKeys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if err := writeField(k, c.Extra[k]); err != nil {
			return nil, err
		}
	}

	if c.Meta.UpdatedAt != "" {
		if err := writeField(MetaKey, c.Meta); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a collection object, missing categories become empty lists
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	res := NewCollection()
	for key, val := range raw {
		if key == MetaKey {
			// malformed metadata is dropped, it is replaced on the next write anyway
			var meta Meta
			if err := json.Unmarshal(val, &meta); err == nil {
				res.Meta = meta
			}
			continue
		}
		if cat, err := ParseCategory(key); err == nil && string(cat) == key {
			var entries []string
			if err := json.Unmarshal(val, &entries); err != nil {
				return fmt.Errorf("decode category %s: %w", key, err)
			}
			if entries != nil {
				res.Entries[cat] = entries
			}
			continue
		}
		if res.Extra == nil {
			res.Extra = make(map[string]json.RawMessage)
		}
		res.Extra[key] = val
	}
	*c = *res
	return nil
}

// Batch is a parsed generation result, always populated with all categories
type Batch map[Category][]string

// NewBatch makes a batch with empty lists for all categories
func NewBatch() Batch {
	b := make(Batch, len(Categories()))
	for _, cat := range Categories() {
		b[cat] = []string{}
	}
	return b
}

// Empty reports whether no category has any entry
func (b Batch) Empty() bool {
	return b.Total() == 0
}

// Total returns the number of entries across all categories
func (b Batch) Total() int {
	total := 0
	for _, cat := range Categories() {
		total += len(b[cat])
	}
	return total
}

// marshalNoEscape encodes v without html escaping, keeping <, > and & as-is
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
