package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/session"
)

func sampleSession() session.Session {
	start := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return session.Session{
		ID:        "b6f1c9e0-1234-5678-9abc-def012345678",
		SubjectID: "sub001",
		StartedAt: start,
		StoppedAt: start.Add(5 * time.Minute),
		Markers: []session.Marker{
			{Label: "baseline start", Offset: time.Minute, At: start.Add(time.Minute)},
			{Label: "stimulus on", Offset: 3 * time.Minute, At: start.Add(3 * time.Minute)},
		},
	}
}

func TestBuild(t *testing.T) {
	r := Build(sampleSession(), "A", "pilot run", "first pass", "192.168.1.10:9000", 1234, 567890)

	if r.SessionID != "b6f1c9e0-1234-5678-9abc-def012345678" || r.SubjectID != "sub001" {
		t.Errorf("ids = %q / %q", r.SessionID, r.SubjectID)
	}
	if r.StartedAt != "2026-03-14T10:30:00Z" || r.StoppedAt != "2026-03-14T10:35:00Z" {
		t.Errorf("times = %q .. %q", r.StartedAt, r.StoppedAt)
	}
	if r.Endpoint != "192.168.1.10:9000" || r.Packets != 1234 || r.Bytes != 567890 {
		t.Errorf("transport stats = %q %d %d", r.Endpoint, r.Packets, r.Bytes)
	}
	if len(r.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(r.Markers))
	}
	if r.Markers[0].Label != "baseline start" || r.Markers[0].OffsetMS != 60000 {
		t.Errorf("marker 0 = %+v", r.Markers[0])
	}
}

func TestWriteAndLoad(t *testing.T) {
	t.Setenv(ReportsDirEnv, t.TempDir())
	w, err := NewWriter()
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	s := sampleSession()
	r := Build(s, "A", "pilot run", "", "192.168.1.10:9000", 10, 2048)
	path, err := w.Write(r, s.StartedAt)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "sub001-20260314-103000-b6f1c9e0.json"
	if got := filepath.Base(path); got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SubjectID != r.SubjectID || got.Packets != r.Packets || len(got.Markers) != len(r.Markers) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestWriteCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "reports")
	t.Setenv(ReportsDirEnv, base)
	w, err := NewWriter()
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	s := sampleSession()
	if _, err := w.Write(Build(s, "", "", "", "127.0.0.1:9000", 0, 0), s.StartedAt); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Errorf("base dir missing: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sub001", "sub001"},
		{"Sub 001", "sub-001"},
		{"a/b\\c", "a-b-c"},
		{"", "anon"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error")
	}
}
