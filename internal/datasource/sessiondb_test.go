package datasource

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SessionDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state", "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoad(t *testing.T) {
	db := openTestDB(t)

	sess := Session{
		BundlePath:           "/data/primates.json",
		FileName:             "primates.json",
		Position:             42,
		Speed:                2,
		Factor:               1.5,
		BranchTransform:      "log",
		MonophyleticColoring: true,
		DimInactive:          true,
		MSAWindowSize:        60,
		MSAStepSize:          3,
		BarOption:            "w-rfd",
		ManualMarks:          [][]int{{0, 1}, {3}},
	}
	if err := db.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.Load("/data/primates.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Position != 42 || got.Speed != 2 || got.BranchTransform != "log" {
		t.Errorf("session round trip mismatch: %+v", got)
	}
	if !got.MonophyleticColoring || !got.DimInactive || got.DimMarked {
		t.Errorf("flags mismatch: %+v", got)
	}
	if len(got.ManualMarks) != 2 || len(got.ManualMarks[0]) != 2 || got.ManualMarks[1][0] != 3 {
		t.Errorf("manual marks mismatch: %v", got.ManualMarks)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("updated_at not set")
	}
}

func TestLoadMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Load("/nowhere.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

func TestSaveUpserts(t *testing.T) {
	db := openTestDB(t)

	sess := Session{BundlePath: "/data/a.json", Position: 5}
	if err := db.Save(sess); err != nil {
		t.Fatal(err)
	}
	sess.Position = 9
	if err := db.Save(sess); err != nil {
		t.Fatal(err)
	}

	got, err := db.Load("/data/a.json")
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != 9 {
		t.Errorf("position = %d after upsert, want 9", got.Position)
	}
	if n, _ := db.Count(); n != 1 {
		t.Errorf("count = %d after upsert, want 1", n)
	}
}

func TestSaveRequiresPath(t *testing.T) {
	db := openTestDB(t)
	if err := db.Save(Session{}); err == nil {
		t.Error("empty bundle path accepted")
	}
}

func TestRecentOrdering(t *testing.T) {
	db := openTestDB(t)

	for _, p := range []string{"/data/a.json", "/data/b.json", "/data/c.json"} {
		if err := db.Save(Session{BundlePath: p}); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	recent, err := db.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d sessions, want 2", len(recent))
	}
	if recent[0].BundlePath != "/data/c.json" {
		t.Errorf("most recent = %q, want /data/c.json", recent[0].BundlePath)
	}
}

func TestDeleteAndPrune(t *testing.T) {
	db := openTestDB(t)

	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		if err := db.Save(Session{BundlePath: p}); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := db.Delete("/a"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Load("/a"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted session still loadable")
	}

	if err := db.Prune(2); err != nil {
		t.Fatal(err)
	}
	if n, _ := db.Count(); n != 2 {
		t.Errorf("count after prune = %d, want 2", n)
	}
	if _, err := db.Load("/d"); err != nil {
		t.Error("newest session pruned away")
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Save(Session{BundlePath: "/data/x.json", Position: 7}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	got, err := db2.Load("/data/x.json")
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != 7 {
		t.Errorf("position = %d after reopen, want 7", got.Position)
	}
}
