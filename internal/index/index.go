// Package index builds the directory map used to resolve playlist entries.
//
// Every regular file below a root directory is keyed by its trailing path
// segments (see package segment) and mapped to its path relative to the
// root. Directory entries are visited in lexical order, so when several
// files share a key the lexically last relative path wins and the outcome
// does not depend on the filesystem's enumeration order.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Paintersrp/m3urel/internal/segment"
)

var (
	ErrNotADirectory = errors.New("not a directory")
	ErrSymlinkLoop   = errors.New("file system loop found")
)

// Options configure how the directory tree is indexed.
type Options struct {
	segment.Options
	// FollowSymlinks descends into linked directories and indexes linked
	// files.
	FollowSymlinks bool
}

// Collision records a key that was claimed by more than one file.
type Collision struct {
	Key      segment.Key
	Replaced string
	Kept     string
}

// Entry is a single key/path pair of the map.
type Entry struct {
	Key  segment.Key
	Path string
}

// Map is the immutable index produced by Build. It is safe for concurrent
// reads.
type Map struct {
	root       string
	opts       Options
	entries    map[segment.Key]string
	collisions []Collision
	skipped    int
}

// Build walks root and indexes every regular file reachable from it. Any
// traversal failure aborts the build; no partial map is returned.
func Build(root string, opts Options) (*Map, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open directory %q: %w", root, ErrNotADirectory)
	}

	m := &Map{
		root:    root,
		opts:    opts,
		entries: make(map[segment.Key]string),
	}

	w := walker{m: m, follow: opts.FollowSymlinks}
	if err := w.walk(root, "", []os.FileInfo{info}); err != nil {
		return nil, err
	}
	return m, nil
}

type walker struct {
	m      *Map
	follow bool
}

// walk indexes dir, whose path relative to the root is rel. ancestors holds
// the directories on the current chain and is used to detect symlink loops.
func (w *walker) walk(dir, rel string, ancestors []os.FileInfo) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory content of %q: %w", dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		relPath := filepath.Join(rel, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.follow {
				continue
			}

			info, err := os.Stat(full)
			if err != nil {
				return fmt.Errorf("failed to follow symlink %q: %w", full, err)
			}

			if info.IsDir() {
				for _, ancestor := range ancestors {
					if os.SameFile(ancestor, info) {
						return fmt.Errorf("%w: %q points to an ancestor", ErrSymlinkLoop, full)
					}
				}
				if err := w.walk(full, relPath, append(ancestors, info)); err != nil {
					return err
				}
			} else if info.Mode().IsRegular() {
				w.m.add(relPath)
			}
			continue
		}

		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("failed to read directory content of %q: %w", full, err)
			}
			if err := w.walk(full, relPath, append(ancestors, info)); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			w.m.add(relPath)
		}
	}

	return nil
}

func (m *Map) add(rel string) {
	key, ok := segment.Derive(rel, m.opts.Options)
	if !ok {
		m.skipped++
		return
	}

	if prev, exists := m.entries[key]; exists {
		m.collisions = append(m.collisions, Collision{Key: key, Replaced: prev, Kept: rel})
	}
	m.entries[key] = rel
}

// Lookup derives the key of ref with the options the map was built with and
// returns the indexed path relative to the root.
func (m *Map) Lookup(ref string) (string, bool) {
	key, ok := segment.Derive(ref, m.opts.Options)
	if !ok {
		return "", false
	}
	return m.LookupKey(key)
}

// LookupKey returns the path indexed under key.
func (m *Map) LookupKey(key segment.Key) (string, bool) {
	rel, ok := m.entries[key]
	return rel, ok
}

func (m *Map) Root() string { return m.root }

func (m *Map) Options() Options { return m.opts }

func (m *Map) Len() int { return len(m.entries) }

// Skipped reports how many files were too shallow to produce a key.
func (m *Map) Skipped() int { return m.skipped }

// Collisions returns the key collisions in the order they were observed.
func (m *Map) Collisions() []Collision {
	return append([]Collision(nil), m.collisions...)
}

// Entries returns the map contents sorted by path.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, 0, len(m.entries))
	for key, rel := range m.entries {
		entries = append(entries, Entry{Key: key, Path: rel})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}
