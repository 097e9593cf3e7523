// Package notes stores transcription notes as markdown files under a
// notebook/section directory tree, with a JSON metadata index at the root.
package notes

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	DefaultNotebook = "AI Transcriptions"
	DefaultSection  = "Transcriptions"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Input describes one note to create. Empty Notebook and Section fall back
// to the defaults.
type Input struct {
	Title         string
	Transcription string
	Summary       string
	Notebook      string
	Section       string
	Metadata      map[string]string
}

// SearchResult points at a stored note whose content matched a query.
type SearchResult struct {
	Path     string
	Notebook string
	Section  string
	FileName string
	Modified time.Time
}

// Stats describes the stored collection.
type Stats struct {
	TotalNotebooks int
	TotalNotes     int
	TotalSizeBytes int64
	TotalSizeMB    float64
	BaseDirectory  string
}

type notebookInfo struct {
	Name      string `json:"name"`
	Created   string `json:"created"`
	NoteCount int    `json:"note_count"`
	Path      string `json:"path"`
}

type metadata struct {
	Version   string                  `json:"version"`
	Created   string                  `json:"created"`
	NoteCount int                     `json:"note_count"`
	Notebooks map[string]notebookInfo `json:"notebooks"`
	Tags      []string                `json:"tags"`
}

// Store is a file-backed note collection rooted at a base directory.
// Mutations are serialized; reads walk the directory tree directly.
type Store struct {
	mu       sync.Mutex
	baseDir  string
	notesDir string
	metaPath string
	meta     metadata
}

// NewStore opens or initializes the note tree under baseDir.
func NewStore(baseDir string) (*Store, error) {
	notesDir := filepath.Join(baseDir, "notes")
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		notesDir: notesDir,
		metaPath: filepath.Join(baseDir, "metadata.json"),
	}
	s.meta = s.loadMetadata()
	return s, nil
}

func (s *Store) loadMetadata() metadata {
	raw, err := os.ReadFile(s.metaPath)
	if err == nil {
		var meta metadata
		if json.Unmarshal(raw, &meta) == nil && meta.Notebooks != nil {
			return meta
		}
	}
	return metadata{
		Version:   "1.0",
		Created:   time.Now().Format(time.RFC3339),
		Notebooks: make(map[string]notebookInfo),
		Tags:      []string{},
	}
}

func (s *Store) saveMetadata() error {
	raw, err := json.MarshalIndent(s.meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath, raw, 0o644)
}

// CreateNote writes the note as a markdown file and returns its path. The
// notebook and section directories are created on demand.
func (s *Store) CreateNote(in Input) (string, error) {
	notebook := in.Notebook
	if strings.TrimSpace(notebook) == "" {
		notebook = DefaultNotebook
	}
	section := in.Section
	if strings.TrimSpace(section) == "" {
		section = DefaultSection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notebookKey := sanitizeFileName(notebook)
	notebookPath := filepath.Join(s.notesDir, notebookKey)
	sectionPath := filepath.Join(notebookPath, sanitizeFileName(section))
	if err := os.MkdirAll(sectionPath, 0o755); err != nil {
		return "", fmt.Errorf("create section directory: %w", err)
	}
	if _, ok := s.meta.Notebooks[notebookKey]; !ok {
		s.meta.Notebooks[notebookKey] = notebookInfo{
			Name:    notebook,
			Created: time.Now().Format(time.RFC3339),
			Path:    notebookPath,
		}
	}

	fileName := fmt.Sprintf("%s_%s.md", time.Now().Format("20060102_150405"), sanitizeFileName(in.Title))
	notePath := filepath.Join(sectionPath, fileName)
	if err := os.WriteFile(notePath, []byte(formatMarkdown(in)), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}

	info := s.meta.Notebooks[notebookKey]
	info.NoteCount++
	s.meta.Notebooks[notebookKey] = info
	s.meta.NoteCount++
	if err := s.saveMetadata(); err != nil {
		return "", fmt.Errorf("save metadata: %w", err)
	}
	return notePath, nil
}

func formatMarkdown(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", in.Title)
	fmt.Fprintf(&b, "**Created:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if len(in.Metadata) > 0 {
		b.WriteString("## Metadata\n\n")
		keys := make([]string, 0, len(in.Metadata))
		for key := range in.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "- **%s:** %s\n", key, in.Metadata[key])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", in.Summary)
	fmt.Fprintf(&b, "## Full Transcription\n\n%s\n\n", in.Transcription)
	b.WriteString("---\n*Generated by VoicePipe*")
	return b.String()
}

// Search returns every note whose content contains query, matched without
// case sensitivity. Unreadable files are skipped.
func (s *Store) Search(query string) ([]SearchResult, error) {
	queryLower := strings.ToLower(query)
	results := []SearchResult{}

	notebooks, err := os.ReadDir(s.notesDir)
	if err != nil {
		return nil, fmt.Errorf("read notes directory: %w", err)
	}
	for _, notebook := range notebooks {
		if !notebook.IsDir() {
			continue
		}
		sections, err := os.ReadDir(filepath.Join(s.notesDir, notebook.Name()))
		if err != nil {
			continue
		}
		for _, section := range sections {
			if !section.IsDir() {
				continue
			}
			sectionPath := filepath.Join(s.notesDir, notebook.Name(), section.Name())
			files, err := os.ReadDir(sectionPath)
			if err != nil {
				continue
			}
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
					continue
				}
				notePath := filepath.Join(sectionPath, file.Name())
				content, err := os.ReadFile(notePath)
				if err != nil {
					continue
				}
				if !strings.Contains(strings.ToLower(string(content)), queryLower) {
					continue
				}
				modified := time.Time{}
				if info, err := file.Info(); err == nil {
					modified = info.ModTime()
				}
				results = append(results, SearchResult{
					Path:     notePath,
					Notebook: notebook.Name(),
					Section:  section.Name(),
					FileName: file.Name(),
					Modified: modified,
				})
			}
		}
	}
	return results, nil
}

// Stats walks the note tree and reports collection totals.
func (s *Store) Stats() (Stats, error) {
	totalNotes := 0
	var totalSize int64

	notebooks, err := os.ReadDir(s.notesDir)
	if err != nil {
		return Stats{}, fmt.Errorf("read notes directory: %w", err)
	}
	for _, notebook := range notebooks {
		if !notebook.IsDir() {
			continue
		}
		sections, err := os.ReadDir(filepath.Join(s.notesDir, notebook.Name()))
		if err != nil {
			continue
		}
		for _, section := range sections {
			if !section.IsDir() {
				continue
			}
			files, err := os.ReadDir(filepath.Join(s.notesDir, notebook.Name(), section.Name()))
			if err != nil {
				continue
			}
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
					continue
				}
				totalNotes++
				if info, err := file.Info(); err == nil {
					totalSize += info.Size()
				}
			}
		}
	}

	s.mu.Lock()
	notebookCount := len(s.meta.Notebooks)
	s.mu.Unlock()

	return Stats{
		TotalNotebooks: notebookCount,
		TotalNotes:     totalNotes,
		TotalSizeBytes: totalSize,
		TotalSizeMB:    math.Round(float64(totalSize)/(1024*1024)*100) / 100,
		BaseDirectory:  s.baseDir,
	}, nil
}

// Notebook describes one notebook tracked in the metadata index.
type Notebook struct {
	ID        string
	Name      string
	Created   string
	NoteCount int
	Path      string
}

// ListNotebooks returns the notebooks recorded in the metadata index,
// sorted by id.
func (s *Store) ListNotebooks() []Notebook {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notebook, 0, len(s.meta.Notebooks))
	for id, info := range s.meta.Notebooks {
		out = append(out, Notebook{
			ID:        id,
			Name:      info.Name,
			Created:   info.Created,
			NoteCount: info.NoteCount,
			Path:      info.Path,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// sanitizeFileName makes a name safe for the filesystem: reserved
// characters become underscores, surrounding spaces and dots are stripped,
// and the result is capped at 100 characters.
func sanitizeFileName(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, " .")
	if runes := []rune(safe); len(runes) > 100 {
		safe = string(runes[:100])
	}
	if safe == "" {
		return "untitled"
	}
	return safe
}
