package fzf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"
)

var (
	ErrNoPlaylists = errors.New("no playlists found")
	ErrNoSelection = errors.New("no playlist selected")
)

// previewLines caps how much of a playlist is rendered in the preview pane.
const previewLines = 200

// PlaylistFinder lets the user pick a playlist below a directory.
type PlaylistFinder struct {
	root   string
	exts   []string
	Header string
	files  []string
}

func NewPlaylistFinder(root string, exts []string, header string) *PlaylistFinder {
	return &PlaylistFinder{root: root, exts: exts, Header: header}
}

// Candidates lists the playlists below the root, skipping hidden
// directories. Paths are sorted and relative to the root.
func (f *PlaylistFinder) Candidates() ([]string, error) {
	var files []string
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != f.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !f.hasPlaylistExt(name) {
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing playlists: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// Run shows the fuzzy finder and returns the chosen playlist's path.
func (f *PlaylistFinder) Run() (string, error) {
	files, err := f.Candidates()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w under %s", ErrNoPlaylists, f.root)
	}
	f.files = files

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.files, func(i int) string {
		return f.files[i]
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("error selecting playlist: %w", err)
	}

	return filepath.Join(f.root, f.files[idx]), nil
}

func (f *PlaylistFinder) hasPlaylistExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range f.exts {
		if ext == want {
			return true
		}
	}
	return false
}

func (f *PlaylistFinder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	content, err := os.ReadFile(filepath.Join(f.root, f.files[i]))
	if err != nil {
		return "Error reading file"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(w),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return string(content)
	}

	rendered, err := r.Render(PreviewMarkdown(f.files[i], string(content)))
	if err != nil {
		return "Error rendering preview"
	}
	return rendered
}

// PreviewMarkdown wraps the head of a playlist in a markdown document for
// the preview pane.
func PreviewMarkdown(name, content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	truncated := false
	if len(lines) > previewLines {
		lines = lines[:previewLines]
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n```\n", filepath.Base(name))
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n```\n")
	if truncated {
		fmt.Fprintf(&b, "\n_first %d lines shown_\n", previewLines)
	}
	return b.String()
}
