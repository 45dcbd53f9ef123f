package parse

import (
	"encoding/json"
	"strings"
)

// HistoryEntry is one element of an embedded price/listing history collection.
// Fields are loosely typed; read them through Currency, ToISOIn and Mileage.
type HistoryEntry map[string]any

func (e HistoryEntry) Price() any   { return e["price"] }
func (e HistoryEntry) Date() any    { return e["date"] }
func (e HistoryEntry) Mileage() any { return e["mileage"] }

// History decodes an embedded history collection. Structured sequences pass
// through; strings and raw bytes are JSON-decoded. Decode failures and
// non-sequence values yield an empty result, never an error.
func History(raw any) []HistoryEntry {
	switch v := raw.(type) {
	case nil:
		return nil
	case []HistoryEntry:
		return v
	case []map[string]any:
		entries := make([]HistoryEntry, 0, len(v))
		for _, m := range v {
			entries = append(entries, HistoryEntry(m))
		}
		return entries
	case []any:
		return fromSlice(v)
	}

	s, ok := text(raw)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil
	}
	return fromSlice(items)
}

// fromSlice keeps object elements; scalars in a history array carry no price or date.
func fromSlice(items []any) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		switch m := item.(type) {
		case map[string]any:
			entries = append(entries, HistoryEntry(m))
		case HistoryEntry:
			entries = append(entries, m)
		}
	}
	return entries
}
