package binding

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type normalizeRec struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Date      time.Time
	SubmitTs  *time.Time
	Title     string
}

func TestNormalizeRecordFillsIDAndCreatedAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := normalizeRec{Title: "hello"}

	id := normalizeRecord(&rec, now)

	if id == uuid.Nil {
		t.Fatalf("expected generated id, got nil uuid")
	}
	if rec.ID != id {
		t.Fatalf("returned id %s does not match record id %s", id, rec.ID)
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("created_at: want %v, got %v", now, rec.CreatedAt)
	}
}

func TestNormalizeRecordKeepsExistingID(t *testing.T) {
	existing := uuid.New()
	rec := normalizeRec{ID: existing}

	id := normalizeRecord(&rec, time.Now())

	if id != existing {
		t.Fatalf("want %s, got %s", existing, id)
	}
}

func TestNormalizeRecordConvertsDatesToUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	local := time.Date(2025, 6, 15, 9, 30, 0, 0, loc)
	sub := local.Add(time.Hour)
	rec := normalizeRec{Date: local, SubmitTs: &sub}

	normalizeRecord(&rec, time.Now())

	if rec.Date.Location() != time.UTC {
		t.Fatalf("date not in UTC: %v", rec.Date)
	}
	if !rec.Date.Equal(local) {
		t.Fatalf("date instant changed: want %v, got %v", local, rec.Date)
	}
	if rec.SubmitTs.Location() != time.UTC {
		t.Fatalf("submit_ts not in UTC: %v", rec.SubmitTs)
	}
	if !rec.SubmitTs.Equal(sub) {
		t.Fatalf("submit_ts instant changed: want %v, got %v", sub, rec.SubmitTs)
	}
}

func TestNormalizePatch(t *testing.T) {
	loc := time.FixedZone("BDT", 6*60*60)
	local := time.Date(2025, 1, 2, 18, 0, 0, 0, loc)

	patch := normalizePatch(map[string]any{
		"date":  local,
		"title": "unchanged",
	})

	got, ok := patch["date"].(time.Time)
	if !ok {
		t.Fatalf("date value type changed: %T", patch["date"])
	}
	if got.Location() != time.UTC || !got.Equal(local) {
		t.Fatalf("want %v in UTC, got %v", local, got)
	}
	if patch["title"] != "unchanged" {
		t.Fatalf("non-time value modified: %v", patch["title"])
	}
}
