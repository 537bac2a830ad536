package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/video-transcribe/backend/internal/auth"
	"github.com/video-transcribe/backend/internal/db/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestEnsureAdmin(t *testing.T) {
	d := newTestDB(t)

	if err := d.EnsureAdmin("admin", "changeme"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	u, err := d.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if !auth.CheckPassword("changeme", u.Password) {
		t.Error("stored hash does not match password")
	}

	// second call must not create another admin
	if err := d.EnsureAdmin("admin2", "other"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if _, err := d.GetUserByUsername("admin2"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second admin created, err = %v", err)
	}

	byID, err := d.GetUserByID(u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Username != "admin" {
		t.Errorf("username = %q", byID.Username)
	}
}

func TestSessionLifecycleRecord(t *testing.T) {
	d := newTestDB(t)

	rec := &models.SessionRecord{
		ID:             "sess-1",
		Source:         "https://youtube.com/watch?v=abc",
		Language:       "ru",
		State:          "acquiring",
		PreviewMinutes: 10,
		CreatedAt:      time.Now(),
	}
	if err := d.CreateSession(rec); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := d.UpdateSessionMedia("sess-1", "YouTube", "Some Talk", 1234.5); err != nil {
		t.Fatalf("UpdateSessionMedia: %v", err)
	}
	if err := d.UpdateSessionState("sess-1", "previewed", ""); err != nil {
		t.Fatalf("UpdateSessionState: %v", err)
	}
	if err := d.SetSessionTranscript("sess-1", "/data/transcripts/x.txt"); err != nil {
		t.Fatalf("SetSessionTranscript: %v", err)
	}

	got, err := d.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Platform != "YouTube" || got.Title != "Some Talk" || got.Duration != 1234.5 {
		t.Errorf("media fields = %q %q %v", got.Platform, got.Title, got.Duration)
	}
	if got.State != "previewed" {
		t.Errorf("state = %q", got.State)
	}
	if got.TranscriptPath != "/data/transcripts/x.txt" {
		t.Errorf("transcript path = %q", got.TranscriptPath)
	}
	if got.PreviewMinutes != 10 {
		t.Errorf("preview minutes = %d", got.PreviewMinutes)
	}
}

func TestSessionStateError(t *testing.T) {
	d := newTestDB(t)

	rec := &models.SessionRecord{ID: "sess-err", Source: "https://x", State: "acquiring", CreatedAt: time.Now()}
	if err := d.CreateSession(rec); err != nil {
		t.Fatal(err)
	}
	if err := d.UpdateSessionState("sess-err", "aborted", "engine failure: boom"); err != nil {
		t.Fatal(err)
	}

	got, err := d.GetSession("sess-err")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != "aborted" || got.Error != "engine failure: boom" {
		t.Errorf("state=%q error=%q", got.State, got.Error)
	}
}

func TestGetSessionMissing(t *testing.T) {
	d := newTestDB(t)
	if _, err := d.GetSession("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestListSessions(t *testing.T) {
	d := newTestDB(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rec := &models.SessionRecord{
			ID:        []string{"a", "b", "c"}[i],
			Source:    "https://x",
			State:     "completed",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := d.CreateSession(rec); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := d.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	if recs[0].ID != "c" || recs[2].ID != "a" {
		t.Errorf("order: %s, %s, %s, want c, b, a", recs[0].ID, recs[1].ID, recs[2].ID)
	}

	limited, err := d.ListSessions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}
