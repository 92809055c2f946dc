package organizer_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/black-lotus-01/data-organizer/internal/model"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
	"github.com/black-lotus-01/data-organizer/internal/testutil"
)

func TestLedger_Record(t *testing.T) {
	t.Run("newest record is first", func(t *testing.T) {
		t.Parallel()
		ledger := newTestLedger()
		ledger.Record(model.ActivityUpload, model.StatusCompleted, "first", "", nil)
		ledger.Record(model.ActivityAnalysis, model.StatusCompleted, "second", "", nil)

		records := ledger.Records()
		if len(records) != 2 {
			t.Fatalf("records = %d, want 2", len(records))
		}
		if records[0].Title != "second" {
			t.Errorf("records[0].Title = %q, want %q", records[0].Title, "second")
		}
		if records[1].Title != "first" {
			t.Errorf("records[1].Title = %q, want %q", records[1].Title, "first")
		}
	})

	t.Run("stamps id and timestamp", func(t *testing.T) {
		t.Parallel()
		clock := testutil.FixedClock()
		ledger := organizer.NewLedger(clock, testutil.NewStubIDGenerator())
		rec := ledger.Record(model.ActivityUpload, model.StatusCompleted, "x", "", nil)

		if rec.ID == "" {
			t.Error("record has no id")
		}
		if !rec.Timestamp.Equal(clock.Now()) {
			t.Errorf("timestamp = %v, want %v", rec.Timestamp, clock.Now())
		}
	})

	t.Run("ids are unique for same-timestamp records", func(t *testing.T) {
		t.Parallel()
		ledger := organizer.NewLedger(testutil.FixedClock(), organizer.UUIDGenerator{})
		a := ledger.Record(model.ActivityUpload, model.StatusCompleted, "a", "", nil)
		b := ledger.Record(model.ActivityUpload, model.StatusCompleted, "b", "", nil)
		if a.ID == b.ID {
			t.Errorf("two records share id %q", a.ID)
		}
	})

	t.Run("discards the oldest records beyond the cap", func(t *testing.T) {
		t.Parallel()
		ledger := newTestLedger()
		for i := 0; i < 120; i++ {
			ledger.Record(model.ActivityUpload, model.StatusCompleted, fmt.Sprintf("record %d", i), "", nil)
		}

		if got := ledger.Len(); got != 100 {
			t.Fatalf("Len() = %d, want 100", got)
		}
		records := ledger.Records()
		if records[0].Title != "record 119" {
			t.Errorf("newest title = %q, want %q", records[0].Title, "record 119")
		}
		if records[99].Title != "record 20" {
			t.Errorf("oldest title = %q, want %q", records[99].Title, "record 20")
		}
	})
}

func TestLedger_Clear(t *testing.T) {
	t.Parallel()
	ledger := newTestLedger()
	ledger.Record(model.ActivityUpload, model.StatusCompleted, "x", "", nil)
	ledger.Clear()
	if got := ledger.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}

func TestLedger_Replace(t *testing.T) {
	t.Parallel()
	ledger := newTestLedger()
	ledger.Record(model.ActivityUpload, model.StatusCompleted, "old", "", nil)

	restored := make([]model.ActivityRecord, 110)
	for i := range restored {
		restored[i] = model.ActivityRecord{ID: fmt.Sprintf("r-%d", i), Title: fmt.Sprintf("restored %d", i)}
	}
	ledger.Replace(restored)

	if got := ledger.Len(); got != 100 {
		t.Errorf("Len() after Replace = %d, want 100 (cap applies)", got)
	}
	if got := ledger.Records()[0].Title; got != "restored 0" {
		t.Errorf("records[0].Title = %q, want %q", got, "restored 0")
	}
}

func TestLedger_Filter(t *testing.T) {
	setup := func(t *testing.T) *organizer.Ledger {
		t.Helper()
		ledger := newTestLedger()
		ledger.Record(model.ActivityUpload, model.StatusCompleted, "Ingested 3 files", "", nil)
		ledger.Record(model.ActivityAnalysis, model.StatusFailed, "Analysis failed", "timeout talking to provider", nil)
		ledger.Record(model.ActivityPlanGenerated, model.StatusCompleted, "Plan generated", "tax documents", nil)
		return ledger
	}

	t.Run("empty filter matches everything", func(t *testing.T) {
		t.Parallel()
		ledger := setup(t)
		if got := len(ledger.Filter(organizer.ActivityFilter{})); got != 3 {
			t.Errorf("matches = %d, want 3", got)
		}
	})

	t.Run("query is a case-insensitive substring over title and description", func(t *testing.T) {
		t.Parallel()
		ledger := setup(t)
		if got := len(ledger.Filter(organizer.ActivityFilter{Query: "TIMEOUT"})); got != 1 {
			t.Errorf("matches for description query = %d, want 1", got)
		}
		if got := len(ledger.Filter(organizer.ActivityFilter{Query: "plan"})); got != 1 {
			t.Errorf("matches for title query = %d, want 1", got)
		}
		if got := len(ledger.Filter(organizer.ActivityFilter{Query: "nothing here"})); got != 0 {
			t.Errorf("matches for absent query = %d, want 0", got)
		}
	})

	t.Run("filters by status and kind", func(t *testing.T) {
		t.Parallel()
		ledger := setup(t)
		if got := len(ledger.Filter(organizer.ActivityFilter{Status: model.StatusFailed})); got != 1 {
			t.Errorf("matches by status = %d, want 1", got)
		}
		if got := len(ledger.Filter(organizer.ActivityFilter{Kind: model.ActivityUpload})); got != 1 {
			t.Errorf("matches by kind = %d, want 1", got)
		}
		combined := organizer.ActivityFilter{Kind: model.ActivityUpload, Status: model.StatusFailed}
		if got := len(ledger.Filter(combined)); got != 0 {
			t.Errorf("matches by kind+status = %d, want 0", got)
		}
	})
}

func TestBucket(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC) // a Monday

	cases := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day", now.Add(-30 * time.Minute), "Today"},
		{"midnight boundary is a calendar day", time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC), "Today"},
		{"previous calendar day", time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), "Yesterday"},
		{"twenty-five hours ago", now.Add(-25 * time.Hour), "Yesterday"},
		{"three days ago", time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC), "Friday"},
		{"six days ago", time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), "Tuesday"},
		{"seven days ago", time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), "Mar 3, 2025"},
		{"far past", time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC), "Dec 25, 2024"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := organizer.Bucket(tc.ts, now); got != tc.want {
				t.Errorf("Bucket(%v) = %q, want %q", tc.ts, got, tc.want)
			}
		})
	}

	t.Run("counts calendar days across a DST transition", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skipf("tzdata unavailable: %v", err)
		}
		// Clocks sprang forward on 2025-03-09, so the local day between
		// these two dates lasted only 23 hours.
		dstNow := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)

		dstCases := []struct {
			name string
			ts   time.Time
			want string
		}{
			{"two calendar days back", time.Date(2025, 3, 8, 10, 0, 0, 0, loc), "Saturday"},
			{"previous calendar day", time.Date(2025, 3, 9, 1, 0, 0, 0, loc), "Yesterday"},
		}
		for _, tc := range dstCases {
			t.Run(tc.name, func(t *testing.T) {
				if got := organizer.Bucket(tc.ts, dstNow); got != tc.want {
					t.Errorf("Bucket(%v) = %q, want %q", tc.ts, got, tc.want)
				}
			})
		}
	})
}

func TestLedger_Grouped(t *testing.T) {
	t.Parallel()
	clock := testutil.NewStubClock(time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC))
	ledger := organizer.NewLedger(clock, testutil.NewStubIDGenerator())

	ledger.Record(model.ActivityUpload, model.StatusCompleted, "two days ago", "", nil)
	clock.Advance(24 * time.Hour)
	ledger.Record(model.ActivityUpload, model.StatusCompleted, "yesterday early", "", nil)
	clock.Advance(2 * time.Hour)
	ledger.Record(model.ActivityUpload, model.StatusCompleted, "yesterday late", "", nil)
	clock.Advance(22 * time.Hour)
	ledger.Record(model.ActivityUpload, model.StatusCompleted, "today", "", nil)

	now := clock.Now()
	groups := ledger.Grouped(organizer.ActivityFilter{}, now)

	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Label != "Today" {
		t.Errorf("groups[0].Label = %q, want %q", groups[0].Label, "Today")
	}
	if groups[1].Label != "Yesterday" {
		t.Errorf("groups[1].Label = %q, want %q", groups[1].Label, "Yesterday")
	}
	if len(groups[1].Records) != 2 {
		t.Errorf("yesterday records = %d, want 2", len(groups[1].Records))
	}
	// Newest first within a bucket.
	if groups[1].Records[0].Title != "yesterday late" {
		t.Errorf("first yesterday record = %q, want %q", groups[1].Records[0].Title, "yesterday late")
	}
}
