// Package relativize runs the two phase pipeline behind the command line:
// index the playlist's directory, then rewrite the playlist against that
// index.
package relativize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Paintersrp/m3urel/internal/handler"
	"github.com/Paintersrp/m3urel/internal/index"
	"github.com/Paintersrp/m3urel/internal/logging"
	"github.com/Paintersrp/m3urel/internal/playlist"
	"github.com/Paintersrp/m3urel/internal/segment"
)

type Options struct {
	Depth           int
	StrictExtension bool
	FollowSymlinks  bool
}

func (o Options) index() index.Options {
	return index.Options{
		Options: segment.Options{
			Depth:           o.Depth,
			IgnoreExtension: !o.StrictExtension,
		},
		FollowSymlinks: o.FollowSymlinks,
	}
}

// Result describes a finished run.
type Result struct {
	Playlist   string
	Root       string
	Indexed    int
	Collisions []index.Collision
	Report     playlist.Report
}

type Service struct {
	handler *handler.FileHandler
	log     *logging.Logger
}

func NewService(h *handler.FileHandler, log *logging.Logger) *Service {
	return &Service{handler: h, log: log}
}

// Run rewrites the playlist at path in place. The original is only replaced
// once the complete rewrite has been written and closed.
func (s *Service) Run(path string, opts Options) (*Result, error) {
	res, m, err := s.prepare(path, opts)
	if err != nil {
		return nil, err
	}

	err = s.handler.Replace(res.Playlist, func(w io.Writer) error {
		report, err := rewriteFile(m, res.Playlist, w)
		res.Report = report
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logReport(res)
	return res, nil
}

// Preview writes the rewritten playlist to w and leaves the original alone.
func (s *Service) Preview(path string, opts Options, w io.Writer) (*Result, error) {
	res, m, err := s.prepare(path, opts)
	if err != nil {
		return nil, err
	}

	report, err := rewriteFile(m, res.Playlist, w)
	if err != nil {
		return nil, err
	}
	res.Report = report

	s.logReport(res)
	return res, nil
}

// Check resolves every entry without producing any output.
func (s *Service) Check(path string, opts Options) (*Result, error) {
	return s.Preview(path, opts, io.Discard)
}

// Index builds the directory map for root.
func (s *Service) Index(root string, opts Options) (*index.Map, error) {
	m, err := index.Build(root, opts.index())
	if err != nil {
		return nil, err
	}
	s.logIndex(m)
	return m, nil
}

func (s *Service) prepare(path string, opts Options) (*Result, *index.Map, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve playlist path %q: %w", path, err)
	}

	if _, err := s.handler.Stat(abs); err != nil {
		return nil, nil, err
	}

	root := filepath.Dir(abs)
	m, err := s.Index(root, opts)
	if err != nil {
		return nil, nil, err
	}

	return &Result{
		Playlist:   abs,
		Root:       root,
		Indexed:    m.Len(),
		Collisions: m.Collisions(),
	}, m, nil
}

func rewriteFile(m *index.Map, path string, w io.Writer) (playlist.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return playlist.Report{}, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	return playlist.Rewrite(m, f, w)
}

func (s *Service) logIndex(m *index.Map) {
	s.log.Debugf("indexed %d files under %s (%d too shallow)", m.Len(), m.Root(), m.Skipped())
	for _, c := range m.Collisions() {
		s.log.Warnf("key %q matches %s and %s; using %s", c.Key.String(), c.Replaced, c.Kept, c.Kept)
	}
}

func (s *Service) logReport(res *Result) {
	for _, miss := range res.Report.Misses {
		s.log.Debugf("dropped line %d %q: %s", miss.Line, miss.Ref, miss.Reason)
	}
	s.log.Infof(
		"%s: %d resolved, %d dropped, %d comments",
		res.Playlist,
		res.Report.Resolved,
		res.Report.Dropped(),
		res.Report.Comments,
	)
}
