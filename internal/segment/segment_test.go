package segment

import (
	"reflect"
	"testing"
)

func TestDeriveTakesTrailingSegments(t *testing.T) {
	key, ok := Derive("/absolute/other/root/rock/song.mp3", Options{Depth: 2, IgnoreExtension: true})
	if !ok {
		t.Fatalf("expected a key for a deep path")
	}

	want := []string{"song", "rock"}
	if got := key.Segments(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected segments %q, got %q", want, got)
	}
	if key.String() != "rock/song" {
		t.Fatalf("expected rendered key 'rock/song', got %q", key.String())
	}
}

func TestDeriveMatchesAcrossRoots(t *testing.T) {
	opts := Options{Depth: 2, IgnoreExtension: true}
	indexed, ok := Derive("music/rock/song.mp3", opts)
	if !ok {
		t.Fatalf("expected indexed path to produce a key")
	}
	referenced, ok := Derive(`D:\library\rock\song.flac`, opts)
	if !ok {
		t.Fatalf("expected referenced path to produce a key")
	}
	if indexed != referenced {
		t.Fatalf("expected keys to match, got %q and %q", indexed, referenced)
	}
}

func TestDeriveStrictExtension(t *testing.T) {
	opts := Options{Depth: 2}
	a, _ := Derive("music/rock/song.mp3", opts)
	b, _ := Derive("rock/song.flac", opts)
	if a == b {
		t.Fatalf("expected extensions to be significant, both produced %q", a)
	}
}

func TestDeriveInsufficientDepth(t *testing.T) {
	cases := []string{"song.mp3", "", "/", "../song.mp3"}
	for _, p := range cases {
		if key, ok := Derive(p, Options{Depth: 2}); ok {
			t.Fatalf("expected no key for %q, got %q", p, key)
		}
	}
}

func TestDeriveDepthZeroCollapses(t *testing.T) {
	a, ok := Derive("music/rock/song.mp3", Options{Depth: 0})
	if !ok {
		t.Fatalf("expected depth zero to produce a key")
	}
	b, ok := Derive("other.ogg", Options{Depth: 0})
	if !ok {
		t.Fatalf("expected depth zero to produce a key")
	}
	if a != b || a != "" {
		t.Fatalf("expected every path to share the empty key, got %q and %q", a, b)
	}
	if a.Segments() != nil {
		t.Fatalf("expected empty key to have no segments")
	}
}

func TestDeriveOnlyStripsFinalSegment(t *testing.T) {
	key, ok := Derive("album.v2/track.one.mp3", Options{Depth: 2, IgnoreExtension: true})
	if !ok {
		t.Fatalf("expected a key")
	}
	if key.String() != "album.v2/track.one" {
		t.Fatalf("expected 'album.v2/track.one', got %q", key.String())
	}
}

func TestDeriveRejectsNegativeDepth(t *testing.T) {
	if _, ok := Derive("a/b", Options{Depth: -1}); ok {
		t.Fatalf("expected negative depth to produce no key")
	}
}
