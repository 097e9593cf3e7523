package notes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store, dir
}

func TestCreateNoteWritesMarkdown(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.CreateNote(Input{
		Title:         "Standup recap",
		Transcription: "We discussed the release schedule.",
		Summary:       "Release schedule discussion.",
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	wantDir := filepath.Join(dir, "notes", "AI Transcriptions", "Transcriptions")
	if filepath.Dir(path) != wantDir {
		t.Fatalf("note stored in %q, want %q", filepath.Dir(path), wantDir)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Fatalf("expected markdown file, got %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"# Standup recap",
		"## Summary",
		"Release schedule discussion.",
		"## Full Transcription",
		"We discussed the release schedule.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("note missing %q:\n%s", want, text)
		}
	}
}

func TestCreateNoteIncludesMetadataSection(t *testing.T) {
	store, _ := newTestStore(t)

	path, err := store.CreateNote(Input{
		Title:         "With metadata",
		Transcription: "text",
		Summary:       "summary",
		Metadata:      map[string]string{"language": "en", "words": "42"},
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	content, _ := os.ReadFile(path)
	text := string(content)
	if !strings.Contains(text, "## Metadata") {
		t.Fatalf("expected metadata section:\n%s", text)
	}
	if !strings.Contains(text, "- **language:** en") || !strings.Contains(text, "- **words:** 42") {
		t.Fatalf("expected metadata entries:\n%s", text)
	}
}

func TestCreateNoteSanitizesNames(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.CreateNote(Input{
		Title:         `draft: q3/q4 plans?`,
		Transcription: "text",
		Summary:       "summary",
		Notebook:      "Work/Projects",
		Section:       "Q3: Planning",
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	if strings.ContainsAny(filepath.Base(path), `<>:"|?*`) {
		t.Fatalf("file name still has reserved characters: %q", filepath.Base(path))
	}
	wantDir := filepath.Join(dir, "notes", "Work_Projects", "Q3_ Planning")
	if filepath.Dir(path) != wantDir {
		t.Fatalf("note stored in %q, want %q", filepath.Dir(path), wantDir)
	}
}

func TestCreateNoteUntitledFallback(t *testing.T) {
	store, _ := newTestStore(t)

	path, err := store.CreateNote(Input{Title: " .. ", Transcription: "text", Summary: "summary"})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if !strings.HasSuffix(filepath.Base(path), "_untitled.md") {
		t.Fatalf("expected untitled fallback, got %q", filepath.Base(path))
	}
}

func TestSearchFindsMatchingNotes(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.CreateNote(Input{Title: "First", Transcription: "the quarterly budget forecast", Summary: "budget"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if _, err := store.CreateNote(Input{Title: "Second", Transcription: "a walk in the park", Summary: "walk"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	results, err := store.Search("QUARTERLY")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.Notebook != "AI Transcriptions" || got.Section != "Transcriptions" {
		t.Fatalf("unexpected location: %+v", got)
	}
	if !strings.Contains(got.FileName, "First") {
		t.Fatalf("unexpected file: %q", got.FileName)
	}
	if got.Modified.IsZero() {
		t.Fatal("expected a modification time")
	}

	none, err := store.Search("nonexistent term")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no results, got %d", len(none))
	}
}

func TestStatsCountsCollection(t *testing.T) {
	store, dir := newTestStore(t)

	if _, err := store.CreateNote(Input{Title: "One", Transcription: "text one", Summary: "s", Notebook: "Alpha"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if _, err := store.CreateNote(Input{Title: "Two", Transcription: "text two", Summary: "s", Notebook: "Beta"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalNotebooks != 2 {
		t.Fatalf("TotalNotebooks = %d, want 2", stats.TotalNotebooks)
	}
	if stats.TotalNotes != 2 {
		t.Fatalf("TotalNotes = %d, want 2", stats.TotalNotes)
	}
	if stats.TotalSizeBytes <= 0 {
		t.Fatalf("TotalSizeBytes = %d, want > 0", stats.TotalSizeBytes)
	}
	if stats.BaseDirectory != dir {
		t.Fatalf("BaseDirectory = %q, want %q", stats.BaseDirectory, dir)
	}
}

func TestListNotebooks(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.CreateNote(Input{Title: "One", Transcription: "t", Summary: "s", Notebook: "Beta"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if _, err := store.CreateNote(Input{Title: "Two", Transcription: "t", Summary: "s", Notebook: "Alpha"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if _, err := store.CreateNote(Input{Title: "Three", Transcription: "t", Summary: "s", Notebook: "Alpha"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	notebooks := store.ListNotebooks()
	if len(notebooks) != 2 {
		t.Fatalf("expected 2 notebooks, got %d", len(notebooks))
	}
	if notebooks[0].Name != "Alpha" || notebooks[0].NoteCount != 2 {
		t.Fatalf("unexpected first notebook: %+v", notebooks[0])
	}
	if notebooks[1].Name != "Beta" || notebooks[1].NoteCount != 1 {
		t.Fatalf("unexpected second notebook: %+v", notebooks[1])
	}
}

func TestMetadataSurvivesReopen(t *testing.T) {
	store, dir := newTestStore(t)
	if _, err := store.CreateNote(Input{Title: "Persisted", Transcription: "text", Summary: "s"}); err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var meta struct {
		NoteCount int `json:"note_count"`
		Notebooks map[string]struct {
			NoteCount int `json:"note_count"`
		} `json:"notebooks"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.NoteCount != 1 || len(meta.Notebooks) != 1 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	stats, err := reopened.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalNotebooks != 1 || stats.TotalNotes != 1 {
		t.Fatalf("unexpected stats after reopen: %+v", stats)
	}
}
