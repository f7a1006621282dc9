// Package report writes the end-of-session JSON summary: subject, endpoint,
// transmit counters, and markers. Reports land in a per-user directory so
// lab scripts can pick them up after a run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/jsonutil"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/session"
)

const (
	// ReportsDirEnv is the env var override for the reports base (for testing).
	ReportsDirEnv = "PHYSIOBRIDGE_REPORTS_DIR"
	// DefaultReportsBase is the default base under the user's home.
	DefaultReportsBase = ".local/share/physiobridge/reports"
)

// Marker is one named timestamp in the report.
type Marker struct {
	Label    string `json:"label"`
	OffsetMS int64  `json:"offset_ms"`
	At       string `json:"at"`
}

// Report is the end-of-session summary document.
type Report struct {
	SessionID string   `json:"session_id"`
	SubjectID string   `json:"subject_id"`
	Group     string   `json:"group,omitempty"`
	Label     string   `json:"label,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	StartedAt string   `json:"started_at"`
	StoppedAt string   `json:"stopped_at"`
	Endpoint  string   `json:"endpoint"`
	Packets   uint64   `json:"packets"`
	Bytes     uint64   `json:"bytes"`
	Markers   []Marker `json:"markers"`
}

// Writer persists reports under the configured base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a writer rooted at the user's home + DefaultReportsBase,
// or at the path in PHYSIOBRIDGE_REPORTS_DIR if set.
func NewWriter() (*Writer, error) {
	base := os.Getenv(ReportsDirEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, DefaultReportsBase)
	}
	return &Writer{baseDir: base}, nil
}

// Build assembles a report from a finished session and its transmit stats.
func Build(s session.Session, group, label, notes, endpoint string, packets, bytes uint64) Report {
	r := Report{
		SessionID: s.ID,
		SubjectID: s.SubjectID,
		Group:     group,
		Label:     label,
		Notes:     notes,
		StartedAt: s.StartedAt.UTC().Format(time.RFC3339),
		StoppedAt: s.StoppedAt.UTC().Format(time.RFC3339),
		Endpoint:  endpoint,
		Packets:   packets,
		Bytes:     bytes,
		Markers:   make([]Marker, 0, len(s.Markers)),
	}
	for _, m := range s.Markers {
		r.Markers = append(r.Markers, Marker{
			Label:    m.Label,
			OffsetMS: m.Offset.Milliseconds(),
			At:       m.At.UTC().Format(time.RFC3339),
		})
	}
	return r
}

// Write persists one report and returns its path. The filename combines the
// subject, start time, and session id: sub001-20260314-103000-b6f1c9e0.json.
func (w *Writer) Write(r Report, startedAt time.Time) (string, error) {
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir reports dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.json",
		normalize(r.SubjectID),
		startedAt.UTC().Format("20060102-150405"),
		shortID(r.SessionID))
	path := filepath.Join(w.baseDir, name)

	data, err := jsonutil.MarshalIndent(r)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Load parses a report written by Write.
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := jsonutil.UnmarshalWithContext(data, &r, "parse report "+filepath.Base(path)); err != nil {
		return Report{}, err
	}
	return r, nil
}

// normalize makes a subject id safe for filenames: lowercase, spaces and
// path separators replaced with hyphens.
func normalize(s string) string {
	if s == "" {
		return "anon"
	}
	s = strings.ToLower(s)
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-")
	return replacer.Replace(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
