// Package segment derives the lookup keys shared by the directory index and
// the playlist rewriter.
//
// A key is made of the last N named components of a path, innermost first.
// The same derivation is applied to indexed files and to playlist
// references; any divergence between the two would make matching
// impossible, so both sides must go through Derive.
package segment

import (
	"strings"

	"github.com/Paintersrp/m3urel/internal/pathutil"
)

// sep cannot appear inside a path component.
const sep = "\x00"

// Key identifies a file by its trailing path segments. The zero value is
// the key produced by a depth of zero.
type Key string

// Options control key derivation.
type Options struct {
	Depth           int
	IgnoreExtension bool
}

// Derive returns the key for p, or false when p has fewer than
// opts.Depth named segments. A ".." segment that survives lexical
// cleaning cannot name a file and also ends the key.
func Derive(p string, opts Options) (Key, bool) {
	if opts.Depth < 0 {
		return "", false
	}

	segments := pathutil.Segments(p)
	if opts.IgnoreExtension && len(segments) > 0 {
		last := len(segments) - 1
		segments[last] = pathutil.StripExtension(segments[last])
	}

	key := make([]string, 0, opts.Depth)
	for i := len(segments) - 1; i >= 0 && len(key) < opts.Depth; i-- {
		if segments[i] == ".." {
			return "", false
		}
		key = append(key, segments[i])
	}

	if len(key) < opts.Depth {
		return "", false
	}
	return Key(strings.Join(key, sep)), true
}

// Segments returns the components of k, innermost first.
func (k Key) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), sep)
}

// String renders k outermost first with forward slashes, the way the
// segments read in a path.
func (k Key) String() string {
	segments := k.Segments()
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}
