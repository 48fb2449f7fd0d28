package recorder

import (
	"path/filepath"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "flightlog.db")
	rec, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rec.Close()

	samples := []map[string]float64{
		{"PLANE ALTITUDE": 1200.5, "AIRSPEED TRUE": 140},
		{"PLANE ALTITUDE": 1250.0, "AIRSPEED TRUE": 142},
		{"PLANE ALTITUDE": 1300.0, "AIRSPEED TRUE": 145},
	}
	for _, s := range samples {
		if err := rec.Record(1, 0, s); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rows, err := rec.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	// Newest first.
	if rows[0].Fields["PLANE ALTITUDE"] != 1300.0 {
		t.Errorf("rows[0] altitude = %v", rows[0].Fields["PLANE ALTITUDE"])
	}
	if rows[1].Fields["PLANE ALTITUDE"] != 1250.0 {
		t.Errorf("rows[1] altitude = %v", rows[1].Fields["PLANE ALTITUDE"])
	}
	if rows[0].RequestID != 1 || rows[0].ObjectID != 0 {
		t.Errorf("row ids = %d/%d", rows[0].RequestID, rows[0].ObjectID)
	}
	if rows[0].RecordedAt.IsZero() {
		t.Error("recorded_at not parsed")
	}
}

func TestRecentOnEmptyLog(t *testing.T) {
	rec, err := Open(filepath.Join(t.TempDir(), "flightlog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rec.Close()

	rows, err := rec.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("len(rows) = %d, want 0", len(rows))
	}
}
