package organizer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// maxLedgerRecords bounds the history; the oldest records are discarded
// on overflow.
const maxLedgerRecords = 100

// Ledger is the append-only activity history. The most recent record is
// always at index 0. Individual records are never updated or deleted;
// Clear is the only removal operation.
type Ledger struct {
	clock Clock
	idgen IDGenerator

	mu      sync.Mutex
	records []model.ActivityRecord
}

// NewLedger creates an empty ledger.
func NewLedger(clock Clock, idgen IDGenerator) *Ledger {
	return &Ledger{clock: clock, idgen: idgen}
}

// Record stamps an id and timestamp onto a new activity record and
// prepends it to the history, truncating anything beyond the cap.
func (l *Ledger) Record(kind model.ActivityKind, status model.OperationStatus, title, description string, meta *model.ActivityMetadata) model.ActivityRecord {
	now := l.clock.Now()
	rec := model.ActivityRecord{
		ID:          fmt.Sprintf("%d-%s", now.UnixMilli(), shortID(l.idgen.New())),
		Kind:        kind,
		Status:      status,
		Title:       title,
		Description: description,
		Timestamp:   now,
		Metadata:    meta,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]model.ActivityRecord{rec}, l.records...)
	if len(l.records) > maxLedgerRecords {
		l.records = l.records[:maxLedgerRecords]
	}
	return rec
}

// Records returns a copy of the history, newest first.
func (l *Ledger) Records() []model.ActivityRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ActivityRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of retained records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear removes all records. It backs the explicit user action; there is
// no per-record delete.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Replace swaps the history for records restored from a snapshot,
// applying the same cap.
func (l *Ledger) Replace(records []model.ActivityRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(records) > maxLedgerRecords {
		records = records[:maxLedgerRecords]
	}
	l.records = make([]model.ActivityRecord, len(records))
	copy(l.records, records)
}

// ActivityFilter selects records. Zero-valued fields match everything.
type ActivityFilter struct {
	Query  string // case-insensitive substring over title + description
	Status model.OperationStatus
	Kind   model.ActivityKind
}

// Filter returns the records matching f, newest first.
func (l *Ledger) Filter(f ActivityFilter) []model.ActivityRecord {
	query := strings.ToLower(f.Query)

	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.ActivityRecord
	for _, r := range l.records {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		if query != "" {
			text := strings.ToLower(r.Title + " " + r.Description)
			if !strings.Contains(text, query) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Bucket labels a timestamp relative to now: "Today", "Yesterday", the
// weekday name for the 7 trailing days, otherwise an absolute date.
// The boundaries are calendar days, not 24-hour windows.
func Bucket(ts, now time.Time) string {
	// Anchor both dates to UTC midnights so the distance is a whole
	// number of days even when the local zone had a DST transition.
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	days := int(day(now).Sub(day(ts.In(now.Location()))).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return ts.In(now.Location()).Weekday().String()
	default:
		return ts.In(now.Location()).Format("Jan 2, 2006")
	}
}

// BucketGroup is one display group of records sharing a date bucket.
type BucketGroup struct {
	Label   string
	Records []model.ActivityRecord
}

// Grouped returns the filtered records grouped into date buckets, newest
// bucket first, preserving record order within each bucket.
func (l *Ledger) Grouped(f ActivityFilter, now time.Time) []BucketGroup {
	var groups []BucketGroup
	index := make(map[string]int)
	for _, r := range l.Filter(f) {
		label := Bucket(r.Timestamp, now)
		i, ok := index[label]
		if !ok {
			index[label] = len(groups)
			groups = append(groups, BucketGroup{Label: label})
			i = index[label]
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// shortID keeps the first uuid group as the random id suffix.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
