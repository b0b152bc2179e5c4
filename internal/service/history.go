package service

import "time"

// MaxHistoryEntries bounds per-connection search history; the oldest record
// is evicted first.
const MaxHistoryEntries = 50

// SearchRecord is one executed search.
type SearchRecord struct {
	Timestamp   time.Time      `json:"timestamp"`
	Filters     map[string]any `json:"filters"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	ResultCount int            `json:"result_count"`
	Success     bool           `json:"success"`
}

// SearchHistory is a fixed-capacity ring of executed searches: once full,
// each Add overwrites the oldest record in place. Not safe for concurrent
// use; each connection owns one and serializes access.
type SearchHistory struct {
	records [MaxHistoryEntries]SearchRecord
	head    int
	size    int
}

// Add stores a record, overwriting the oldest when the ring is full.
func (h *SearchHistory) Add(record SearchRecord) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if h.size == MaxHistoryEntries {
		h.records[h.head] = record
		h.head = (h.head + 1) % MaxHistoryEntries
		return
	}
	h.records[(h.head+h.size)%MaxHistoryEntries] = record
	h.size++
}

// Len reports the number of retained records.
func (h *SearchHistory) Len() int { return h.size }

// Records returns the retained searches, oldest first. The returned slice is
// a copy.
func (h *SearchHistory) Records() []SearchRecord {
	out := make([]SearchRecord, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.records[(h.head+i)%MaxHistoryEntries]
	}
	return out
}
