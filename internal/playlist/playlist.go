// Package playlist rewrites the entries of line-oriented m3u playlists
// against a directory index.
package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Paintersrp/m3urel/internal/index"
	"github.com/Paintersrp/m3urel/internal/segment"
)

const bom = "\ufeff"

// Resolver looks up indexed paths by key. *index.Map implements it.
type Resolver interface {
	Options() index.Options
	LookupKey(segment.Key) (string, bool)
}

// LineKind classifies a playlist line.
type LineKind int

const (
	Blank LineKind = iota
	Comment
	Reference
)

// Classify returns the kind of line together with its trimmed content.
func Classify(line string) (LineKind, string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Blank, ""
	case strings.HasPrefix(trimmed, "#"):
		return Comment, trimmed
	default:
		return Reference, trimmed
	}
}

// MissReason explains why a reference was dropped.
type MissReason int

const (
	TooShallow MissReason = iota + 1
	NotIndexed
)

func (r MissReason) String() string {
	switch r {
	case TooShallow:
		return "too shallow"
	case NotIndexed:
		return "not indexed"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Miss is a reference that could not be resolved and was left out of the
// output.
type Miss struct {
	Line   int
	Ref    string
	Reason MissReason
}

// Report summarises a rewrite.
type Report struct {
	Lines    int
	Comments int
	Blank    int
	Resolved int
	Misses   []Miss
}

func (r Report) Dropped() int { return len(r.Misses) }

// Rewrite copies the playlist read from r to w. Comments are written in
// their trimmed form, references are replaced by the indexed path relative
// to the index root and references that cannot be resolved are dropped.
// Blank lines are dropped as well. Read and write failures abort the
// rewrite; a miss never does.
func Rewrite(res Resolver, r io.Reader, w io.Writer) (Report, error) {
	var report Report

	opts := res.Options().Options
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return report, fmt.Errorf("failed while reading file content: %w", readErr)
		}
		if line == "" && readErr != nil {
			break
		}

		report.Lines++
		if report.Lines == 1 {
			line = strings.TrimPrefix(line, bom)
		}

		kind, content := Classify(line)
		switch kind {
		case Blank:
			report.Blank++
		case Comment:
			report.Comments++
			if err := writeLine(bw, content); err != nil {
				return report, err
			}
		case Reference:
			key, ok := segment.Derive(content, opts)
			if !ok {
				report.Misses = append(report.Misses, Miss{Line: report.Lines, Ref: content, Reason: TooShallow})
				break
			}
			rel, ok := res.LookupKey(key)
			if !ok {
				report.Misses = append(report.Misses, Miss{Line: report.Lines, Ref: content, Reason: NotIndexed})
				break
			}
			report.Resolved++
			if err := writeLine(bw, rel); err != nil {
				return report, err
			}
		}

		if readErr != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return report, fmt.Errorf("failed while writing to file: %w", err)
	}
	return report, nil
}

func writeLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return fmt.Errorf("failed while writing to file: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed while writing to file: %w", err)
	}
	return nil
}
